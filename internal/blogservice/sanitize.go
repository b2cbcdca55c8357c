package blogservice

import "regexp"

var scriptTagRX = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeText strips script elements from user supplied text.
func sanitizeText(text string) string {
	return scriptTagRX.ReplaceAllString(text, "")
}
