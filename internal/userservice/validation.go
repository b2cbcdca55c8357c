package userservice

import (
	"regexp"
	"unicode/utf8"

	"github.com/sushihentaime/bloglist/internal/common"
)

var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	minUsernameLength = 3
	minPasswordLength = 3
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(utf8.RuneCountInString(username) >= minUsernameLength, "username", "must be at least 3 characters long")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(utf8.RuneCountInString(password) >= minPasswordLength, "password", "must be at least 3 characters long")
	v.Check(len(password) <= maxPasswordBytes, "password", "must not be more than 72 bytes long")
}

// validateEmail only checks the format; the address is optional.
func validateEmail(v *common.Validator, email string) {
	if email == "" {
		return
	}
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}
