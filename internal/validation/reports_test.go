package validation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupStub struct {
	handleExists bool
	emailOwner   string
}

func (s *lookupStub) HandleExists(ctx context.Context, handle string) (bool, error) {
	return s.handleExists, nil
}

func (s *lookupStub) EmailOwner(ctx context.Context, email string) (string, error) {
	return s.emailOwner, nil
}

func TestIsValidSignUpAllValid(t *testing.T) {
	checker := NewChecker(&lookupStub{})

	report, err := checker.IsValidSignUp(context.Background(), "handle1234", "Some Person", "Password1!", "person@example.com")
	require.NoError(t, err)
	assert.True(t, report.Valid())
}

func TestIsValidSignUpTakenHandleAndEmail(t *testing.T) {
	checker := NewChecker(&lookupStub{handleExists: true, emailOwner: "otherhandle"})

	report, err := checker.IsValidSignUp(context.Background(), "handle1234", "Some Person", "Password1!", "person@example.com")
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.Contains(t, report.Handle.Messages, "Handle is already taken.")
	assert.Contains(t, report.Email.Messages, "Email is already in use.")
}

func TestIsValidUpdateProfileOwnEmailPasses(t *testing.T) {
	checker := NewChecker(&lookupStub{emailOwner: "handle1234"})

	report, err := checker.IsValidUpdateProfile(context.Background(), "handle1234", UpdateProfileInput{
		Username:        "Some Person",
		OldPassword:     "Password1!",
		Email:           "person@example.com",
		UserDescription: "A description.",
		ProfilePicture:  "https://example.com/me.png",
		BannerPicture:   "https://example.com/banner.jpg",
	})
	require.NoError(t, err)
	assert.True(t, report.Valid())
	assert.Nil(t, report.NewPassword)
}

func TestIsValidUpdateProfileForeignEmailFails(t *testing.T) {
	checker := NewChecker(&lookupStub{emailOwner: "someoneelse"})

	report, err := checker.IsValidUpdateProfile(context.Background(), "handle1234", UpdateProfileInput{
		Username:        "Some Person",
		OldPassword:     "Password1!",
		Email:           "person@example.com",
		UserDescription: "A description.",
		ProfilePicture:  "https://example.com/me.png",
		BannerPicture:   "https://example.com/banner.jpg",
	})
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.Contains(t, report.Email.Messages, "Email is already in use.")
}

func TestIsValidUpdateProfileNewPassword(t *testing.T) {
	checker := NewChecker(&lookupStub{})

	report, err := checker.IsValidUpdateProfile(context.Background(), "handle1234", UpdateProfileInput{
		Username:        "Some Person",
		OldPassword:     "Password1!",
		NewPassword:     "Password1!",
		Email:           "person@example.com",
		UserDescription: "A description.",
		ProfilePicture:  "https://example.com/me.png",
		BannerPicture:   "https://example.com/banner.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, report.NewPassword)
	assert.False(t, report.Valid())
	assert.Contains(t, report.NewPassword.Messages, "New password cannot be the same as the old password.")
}

func TestUpdateProfileReportOmitsAbsentNewPassword(t *testing.T) {
	checker := NewChecker(&lookupStub{})

	report, err := checker.IsValidUpdateProfile(context.Background(), "handle1234", UpdateProfileInput{
		Username:        "Some Person",
		OldPassword:     "Password1!",
		Email:           "person@example.com",
		UserDescription: "A description.",
		ProfilePicture:  "https://example.com/me.png",
		BannerPicture:   "https://example.com/banner.jpg",
	})
	require.NoError(t, err)

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "newPassword")
}
