package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/samir7888/hospital-cms-client/api"
	apperrors "github.com/samir7888/hospital-cms-client/internal/errors"
)

type listParams struct {
	Page   int    `url:"page,omitempty"`
	Search string `url:"search,omitempty"`
}

type echoPayload struct {
	Value string `json:"value"`
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := api.New("not-a-url")
	require.Error(t, err)

	_, err = api.New("/api/v1")
	require.Error(t, err)
}

func TestGetEncodesQueryParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer server.Close()

	client, err := api.New(server.URL)
	require.NoError(t, err)

	var out echoPayload
	err = client.Get(context.Background(), "/doctors", listParams{Page: 2, Search: "cardio"}, &out)
	require.NoError(t, err)
	require.Equal(t, "page=2&search=cardio", gotQuery)
	require.Equal(t, "ok", out.Value)
}

func TestBearerTokenAttachedFromTokenSource(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := api.New(server.URL, api.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1"})))
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "/doctors", nil, nil))
	require.Equal(t, []string{"Bearer tok-1"}, gotAuth)
}

func TestEmptyTokenOmitsAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := api.New(server.URL, api.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{})))
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "/doctors", nil, nil))
	require.Empty(t, gotAuth)
}

func TestRequestCarriesRequestID(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := api.New(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.Post(context.Background(), "/auth/refresh", nil, nil))
	require.NotEmpty(t, gotID)
}

func TestErrorPayloadDecoding(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantFields  map[string]string
		wantIs      error
	}{
		{
			name:        "string message",
			status:      http.StatusUnauthorized,
			body:        `{"statusCode":401,"message":"Invalid credentials"}`,
			wantMessage: "Invalid credentials",
			wantIs:      apperrors.ErrUnauthorized,
		},
		{
			name:        "array message",
			status:      http.StatusBadRequest,
			body:        `{"statusCode":400,"message":["email must be an email","password too short"]}`,
			wantMessage: "email must be an email; password too short",
			wantIs:      apperrors.ErrBadRequest,
		},
		{
			name:        "field errors",
			status:      http.StatusBadRequest,
			body:        `{"statusCode":400,"message":"Validation failed","errors":{"email":"must be an email"}}`,
			wantMessage: "Validation failed",
			wantFields:  map[string]string{"email": "must be an email"},
			wantIs:      apperrors.ErrBadRequest,
		},
		{
			name:   "undecodable body still carries status",
			status: http.StatusNotFound,
			body:   `<html>not found</html>`,
			wantIs: apperrors.ErrNotFound,
		},
		{
			name:        "server error class",
			status:      http.StatusBadGateway,
			body:        `{"statusCode":502,"message":"upstream down"}`,
			wantMessage: "upstream down",
			wantIs:      apperrors.ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := api.New(server.URL)
			require.NoError(t, err)

			err = client.Get(context.Background(), "/doctors", nil, nil)
			require.Error(t, err)

			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.wantMessage, apiErr.Message)
			require.Equal(t, tt.wantFields, apiErr.Fields)
			require.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestContextCancellationAborts(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, err := api.New(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Get(ctx, "/doctors", nil, nil)
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestBaseURLPathPreserved(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := api.New(server.URL + "/api/v1")
	require.NoError(t, err)

	require.NoError(t, client.Get(context.Background(), "/doctors", nil, nil))
	require.Equal(t, "/api/v1/doctors", gotPath)
}

// An escaped slash inside an id must stay one path segment on the wire.
func TestEscapedPathSegmentPreserved(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := api.New(server.URL)
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "/doctors/"+url.PathEscape("a/b"), nil))
	require.Equal(t, "/doctors/a%2Fb", gotPath)
}
