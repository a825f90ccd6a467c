package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{http: srv.Client(), baseURL: srv.URL}
}

func TestHasJoinedParsesProfile(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Notch", r.URL.Query().Get("username"))
		require.Equal(t, "deadbeef", r.URL.Query().Get("serverId"))
		w.Write([]byte(`{"id":"` + id.String() + `","name":"Notch","properties":[{"name":"textures","value":"abc","signature":"sig"}]}`))
	})

	profile, err := client.HasJoined(context.Background(), "Notch", "deadbeef")
	require.NoError(t, err)
	require.Equal(t, id, profile.ID)
	require.Equal(t, "Notch", profile.Name)
	require.Equal(t, []Property{{Name: "textures", Value: "abc", Signature: "sig"}}, profile.Properties)
}

func TestHasJoinedRejectsNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.HasJoined(context.Background(), "Notch", "deadbeef")
	require.ErrorIs(t, err, ErrSessionLookupFailed)
}
