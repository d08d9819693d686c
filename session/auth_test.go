package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samir7888/hospital-cms-client/session"
)

func TestChangePasswordLogoutEverywhereClearsSession(t *testing.T) {
	var gotBody map[string]any
	f, _ := setupStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/change-password", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))

	f.store.SetAccessToken("live-token")
	err := f.store.ChangePassword(context.Background(), "old-pass", "new-pass", true)
	require.NoError(t, err)

	require.Equal(t, "old-pass", gotBody["currentPassword"])
	require.Equal(t, "new-pass", gotBody["newPassword"])
	require.Equal(t, true, gotBody["logout"])

	require.Empty(t, f.store.AccessToken())
	require.Equal(t, session.LoginRoute, f.nav.Current())
}

func TestChangePasswordKeepsSessionByDefault(t *testing.T) {
	f, _ := setupStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	f.store.SetAccessToken("live-token")
	require.NoError(t, f.store.ChangePassword(context.Background(), "old", "new", false))
	require.Equal(t, "live-token", f.store.AccessToken())
	require.Empty(t, f.nav.Visits())
}

func TestChangePasswordFailureNotifies(t *testing.T) {
	f, _ := setupStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":400,"message":"Current password is incorrect"}`))
	}))

	err := f.store.ChangePassword(context.Background(), "wrong", "new", false)
	require.Error(t, err)
	require.Equal(t, []string{"Current password is incorrect"}, f.notifier.Errors())
}

func TestForgotPassword(t *testing.T) {
	var gotBody map[string]string
	f, _ := setupStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/forgot-password", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, f.store.ForgotPassword(context.Background(), "asha@hospital.example.com"))
	require.Equal(t, "asha@hospital.example.com", gotBody["email"])
	require.NotEmpty(t, f.notifier.Successes())
}

func TestResetPasswordNavigatesToLogin(t *testing.T) {
	var gotBody map[string]string
	f, _ := setupStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/reset-password", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, f.store.ResetPassword(context.Background(), "new-pass", "reset-token-123"))
	require.Equal(t, "reset-token-123", gotBody["token"])
	require.Equal(t, session.LoginRoute, f.nav.Current())
}

func TestUpdateEmail(t *testing.T) {
	var gotBody map[string]string
	f, _ := setupStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/update-email", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, f.store.UpdateEmail(context.Background(), "new@hospital.example.com", "pw"))
	require.Equal(t, "new@hospital.example.com", gotBody["newEmail"])
}
