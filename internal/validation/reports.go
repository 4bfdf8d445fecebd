package validation

import (
	"context"
)

// AccountLookup answers the uniqueness questions that need a database.
// witter's user repository satisfies it.
type AccountLookup interface {
	HandleExists(ctx context.Context, handle string) (bool, error)
	EmailOwner(ctx context.Context, email string) (string, error)
}

// SignUpReport is the per-field validity report for registration input.
type SignUpReport struct {
	Handle   Result `json:"handle"`
	Username Result `json:"username"`
	Password Result `json:"password"`
	Email    Result `json:"email"`
}

// Valid reports whether every field passed.
func (r SignUpReport) Valid() bool {
	return r.Handle.IsValid && r.Username.IsValid && r.Password.IsValid && r.Email.IsValid
}

// UpdateProfileReport is the per-field report for profile updates.
// NewPassword is nil (and omitted from JSON) when no new password was
// supplied.
type UpdateProfileReport struct {
	Username        Result  `json:"username"`
	OldPassword     Result  `json:"oldPassword"`
	NewPassword     *Result `json:"newPassword,omitempty"`
	Email           Result  `json:"email"`
	UserDescription Result  `json:"userDescription"`
	ProfilePicture  Result  `json:"profilePicture"`
	BannerPicture   Result  `json:"bannerPicture"`
}

// Valid reports whether every present field passed.
func (r UpdateProfileReport) Valid() bool {
	if !r.Username.IsValid || !r.OldPassword.IsValid || !r.Email.IsValid ||
		!r.UserDescription.IsValid || !r.ProfilePicture.IsValid || !r.BannerPicture.IsValid {
		return false
	}
	if r.NewPassword != nil && !r.NewPassword.IsValid {
		return false
	}
	return true
}

// Checker runs the composite validators that combine format rules with
// database-backed uniqueness checks.
type Checker struct {
	lookup AccountLookup
}

// NewChecker returns a Checker backed by the given lookup.
func NewChecker(lookup AccountLookup) *Checker {
	return &Checker{lookup: lookup}
}

// IsValidSignUp aggregates the four registration fields into one report.
// Handle and email are additionally checked for uniqueness.
func (c *Checker) IsValidSignUp(ctx context.Context, handle, username, password, email string) (*SignUpReport, error) {
	report := &SignUpReport{
		Handle:   ValidateHandle(handle),
		Username: ValidateUsername(username),
		Password: ValidatePassword(password),
		Email:    ValidateEmailFormat(email),
	}

	taken, err := c.lookup.HandleExists(ctx, handle)
	if err != nil {
		return nil, err
	}
	if taken {
		report.Handle.Messages = append(report.Handle.Messages, "Handle is already taken.")
		report.Handle.IsValid = false
	}

	owner, err := c.lookup.EmailOwner(ctx, email)
	if err != nil {
		return nil, err
	}
	if owner != "" {
		report.Email.Messages = append(report.Email.Messages, "Email is already in use.")
		report.Email.IsValid = false
	}

	return report, nil
}

// UpdateProfileInput carries the candidate profile values.
type UpdateProfileInput struct {
	Username        string
	OldPassword     string
	NewPassword     string
	Email           string
	UserDescription string
	ProfilePicture  string
	BannerPicture   string
}

// IsValidUpdateProfile validates a profile update for the account identified
// by ownerHandle. The email check passes when the address is unused or
// already belongs to the owner. The NewPassword field is only evaluated
// (and only present in the report) when a new password was supplied.
func (c *Checker) IsValidUpdateProfile(ctx context.Context, ownerHandle string, in UpdateProfileInput) (*UpdateProfileReport, error) {
	report := &UpdateProfileReport{
		Username:        ValidateUsername(in.Username),
		OldPassword:     ValidatePassword(in.OldPassword),
		Email:           ValidateEmailFormat(in.Email),
		UserDescription: ValidateUserDescription(in.UserDescription),
		ProfilePicture:  ValidatePicture(in.ProfilePicture),
		BannerPicture:   ValidatePicture(in.BannerPicture),
	}

	if in.NewPassword != "" {
		res := ValidateNewPassword(in.NewPassword, in.OldPassword)
		report.NewPassword = &res
	}

	owner, err := c.lookup.EmailOwner(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if owner != "" && owner != ownerHandle {
		report.Email.Messages = append(report.Email.Messages, "Email is already in use.")
		report.Email.IsValid = false
	}

	return report, nil
}
