// Package session owns the access-token lifecycle for the CMS dashboard:
// the in-memory store holding the current bearer credential, the silent
// refresh gate that exchanges the http-only refresh cookie on startup, and
// the account maintenance operations (password and email changes).
//
// The access token lives only in this process; the refresh token lives in
// an http-only cookie managed by the API client's cookie jar and is never
// readable here.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/samir7888/hospital-cms-client/api"
	apperrors "github.com/samir7888/hospital-cms-client/internal/errors"
)

const genericFailureMessage = "Something went wrong. Please try again."

// Store holds the current access token and derives the signed-in user from
// it. It is constructed explicitly and passed to consumers; there is no
// package-level session state. One Store exists per application lifetime.
type Store struct {
	client   *api.Client
	notifier Notifier
	nav      Navigator

	mu          sync.RWMutex
	accessToken string
}

// StoreOption configures optional Store collaborators.
type StoreOption func(*Store)

// WithNotifier sets the notification surface for login and account
// maintenance outcomes.
func WithNotifier(notifier Notifier) StoreOption {
	return func(s *Store) {
		s.notifier = notifier
	}
}

// WithNavigator sets the navigator used after login and logout.
func WithNavigator(nav Navigator) StoreOption {
	return func(s *Store) {
		s.nav = nav
	}
}

// NewStore creates a session store bound to the API client.
func NewStore(client *api.Client, options ...StoreOption) (*Store, error) {
	if client == nil {
		return nil, errors.New("[NewStore] api client is required")
	}

	s := &Store{client: client}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// AccessToken returns the current bearer token, or "" when signed out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetAccessToken replaces the current token. An empty token signs the
// session out. Used by the silent refresh gate and by logout.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// User returns the identity decoded from the current access token, or nil
// when there is no token or it cannot be decoded. Recomputed on every call
// so token writes are reflected immediately.
func (s *Store) User() *User {
	return DecodeUser(s.AccessToken())
}

// RequireUser returns the current user or ErrNotAuthenticated.
func (s *Store) RequireUser() (*User, error) {
	user := s.User()
	if user == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return user, nil
}

// TokenSource exposes the store as an oauth2.TokenSource. Every Token call
// reads the live token, so requests dispatched after a silent refresh carry
// the refreshed credential without any caller involvement.
func (s *Store) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}

type tokenSource struct {
	store *Store
}

func (t tokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: t.store.AccessToken()}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for an access token. On success the token is
// stored, a success notification is surfaced, and navigation replaces to
// the dashboard root. On failure the server's message (or a generic
// fallback) is surfaced and the error is returned so pending-state UI can
// reset. Login failures are local: no retry.
func (s *Store) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	if err := s.client.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		s.notifyError(err)
		return errors.Wrap(err, "[Store.Login] auth/login")
	}

	if resp.AccessToken == "" {
		err := errors.New("[Store.Login] login response missing access token")
		s.notifyError(err)
		return err
	}

	s.SetAccessToken(resp.AccessToken)
	s.notifySuccess("Signed in successfully")
	s.navigate(DashboardRoute)
	return nil
}

// Logout revokes the refresh credential server-side, clears the local token
// and navigates to the login screen. The local session is cleared even when
// the revoke call fails. A dead server must not trap the user signed in.
func (s *Store) Logout(ctx context.Context) error {
	err := s.client.Post(ctx, "/auth/logout", nil, nil)

	s.SetAccessToken("")
	s.navigate(LoginRoute)

	if err != nil {
		return errors.Wrap(err, "[Store.Logout] auth/logout")
	}
	return nil
}

func (s *Store) notifySuccess(message string) {
	if s.notifier != nil {
		s.notifier.Success(message)
	}
}

func (s *Store) notifyError(err error) {
	if s.notifier == nil {
		return
	}
	s.notifier.Error(failureMessage(err))
}

func (s *Store) navigate(route string) {
	if s.nav != nil {
		s.nav.Replace(route)
	}
}

// failureMessage extracts the user-facing message from an API failure.
// Transport failures and undecodable payloads fall back to a generic
// message. The UI makes no distinction between "server down" and
// "server rejected".
func failureMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailureMessage
}
