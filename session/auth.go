package session

import (
	"context"

	"github.com/pkg/errors"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	Logout          bool   `json:"logout"`
}

type updateEmailRequest struct {
	NewEmail string `json:"newEmail"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

// ChangePassword updates the account password. When logoutEverywhere is set
// the server revokes all refresh tokens, and this session is cleared too.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword string, logoutEverywhere bool) error {
	req := changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
		Logout:          logoutEverywhere,
	}
	if err := s.client.Post(ctx, "/auth/change-password", req, nil); err != nil {
		s.notifyError(err)
		return errors.Wrap(err, "[Store.ChangePassword] auth/change-password")
	}

	s.notifySuccess("Password updated")
	if logoutEverywhere {
		s.SetAccessToken("")
		s.navigate(LoginRoute)
	}
	return nil
}

// UpdateEmail changes the account email, re-authenticated with the current
// password.
func (s *Store) UpdateEmail(ctx context.Context, newEmail, password string) error {
	if err := s.client.Post(ctx, "/auth/update-email", updateEmailRequest{NewEmail: newEmail, Password: password}, nil); err != nil {
		s.notifyError(err)
		return errors.Wrap(err, "[Store.UpdateEmail] auth/update-email")
	}

	s.notifySuccess("Email updated")
	return nil
}

// ForgotPassword requests a password reset email. Unauthenticated.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	if err := s.client.Post(ctx, "/auth/forgot-password", forgotPasswordRequest{Email: email}, nil); err != nil {
		s.notifyError(err)
		return errors.Wrap(err, "[Store.ForgotPassword] auth/forgot-password")
	}

	s.notifySuccess("Password reset email sent")
	return nil
}

// ResetPassword sets a new password using the token from the reset email,
// then navigates to the login screen.
func (s *Store) ResetPassword(ctx context.Context, password, token string) error {
	if err := s.client.Post(ctx, "/auth/reset-password", resetPasswordRequest{Password: password, Token: token}, nil); err != nil {
		s.notifyError(err)
		return errors.Wrap(err, "[Store.ResetPassword] auth/reset-password")
	}

	s.notifySuccess("Password reset, please sign in")
	s.navigate(LoginRoute)
	return nil
}
