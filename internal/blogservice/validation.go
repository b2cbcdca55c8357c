package blogservice

import (
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(strings.TrimSpace(title) != "", "title", "must be provided")
}

func validateURL(v *common.Validator, url string) {
	v.Check(strings.TrimSpace(url) != "", "url", "must be provided")
}
