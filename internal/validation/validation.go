// Package validation implements the field-validation rules for account data.
// Every validator collects all failures instead of stopping at the first,
// so API clients can render a complete per-field report.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Result is the outcome of validating a single field.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Messages []string `json:"messages"`
}

func newResult(messages []string) Result {
	return Result{IsValid: len(messages) == 0, Messages: messages}
}

var (
	handleRegex  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
	// Deliberately restrictive: local@domain with a .com/.edu/.net suffix.
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+\.(com|edu|net)$`)
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// ValidateHandle checks handle format only; uniqueness is the caller's
// concern (it needs a database lookup).
func ValidateHandle(handle string) Result {
	var messages []string
	if len(handle) < 8 || len(handle) > 20 {
		messages = append(messages, "Handle must be between 8 and 20 characters long.")
	}
	if !handleRegex.MatchString(handle) {
		messages = append(messages, "Handle can only contain letters and numbers.")
	}
	return newResult(messages)
}

// ValidateUsername checks display-name rules.
func ValidateUsername(username string) Result {
	var messages []string
	if len(username) < 8 || len(username) > 20 {
		messages = append(messages, "Username must be between 8 and 20 characters long.")
	}
	if strings.TrimSpace(username) == "" {
		messages = append(messages, "Username cannot be blank.")
	}
	if username != "" && username[0] == ' ' {
		messages = append(messages, "Username cannot begin with a blank space.")
	}
	return newResult(messages)
}

// ValidatePassword checks password strength rules.
func ValidatePassword(password string) Result {
	var messages []string
	if len(password) < 8 || len(password) > 20 {
		messages = append(messages, "Password must be between 8 and 20 characters long.")
	}

	hasUpper := false
	hasSpace := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsSpace(r) {
			hasSpace = true
		}
	}
	if !hasUpper {
		messages = append(messages, "Password must contain at least one uppercase letter.")
	}
	if !digitRegex.MatchString(password) {
		messages = append(messages, "Password must contain at least one number.")
	}
	if !specialRegex.MatchString(password) {
		messages = append(messages, "Password must contain at least one special character.")
	}
	if hasSpace {
		messages = append(messages, "Password cannot contain any blank spaces.")
	}
	return newResult(messages)
}

// ValidateNewPassword applies the password rules and additionally requires
// the new password to differ from the old one.
func ValidateNewPassword(newPassword, oldPassword string) Result {
	res := ValidatePassword(newPassword)
	if newPassword == oldPassword {
		res.Messages = append(res.Messages, "New password cannot be the same as the old password.")
		res.IsValid = false
	}
	return res
}

// ValidateEmailFormat checks the address shape only.
func ValidateEmailFormat(email string) Result {
	var messages []string
	if !emailRegex.MatchString(email) {
		messages = append(messages, "Invalid email. Please use a valid email address.")
	}
	return newResult(messages)
}

// ValidatePicture checks profile/banner picture URLs.
func ValidatePicture(url string) Result {
	var messages []string
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		messages = append(messages, "Picture must be a valid http or https URL.")
	}
	recognized := false
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			recognized = true
			break
		}
	}
	if !recognized {
		messages = append(messages, "Picture URL must end in a recognized image extension.")
	}
	if strings.ContainsFunc(url, unicode.IsSpace) {
		messages = append(messages, "Picture URL cannot contain any blank spaces.")
	}
	return newResult(messages)
}

// ValidateUserDescription checks profile description rules.
func ValidateUserDescription(description string) Result {
	var messages []string
	if len(description) > 250 {
		messages = append(messages, "User description cannot exceed 250 characters.")
	}
	if strings.TrimSpace(description) == "" {
		messages = append(messages, "User description cannot be blank.")
	}
	if description != "" && description[0] == ' ' {
		messages = append(messages, "User description cannot begin with a blank space.")
	}
	return newResult(messages)
}
