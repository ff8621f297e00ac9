// Package transporttest provides helpers for testing code built on the
// request pipeline against an in-process fake backend.
package transporttest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/transport"
)

// StaticSession is a SessionStore handing out a fixed token and refusing to
// refresh.
type StaticSession struct {
	Token string
}

func (s StaticSession) AccessToken() string { return s.Token }

func (s StaticSession) Refresh(ctx context.Context) (string, error) {
	return "", errors.New("static session cannot refresh")
}

func (s StaticSession) Clear() {}

// NewServerClient starts a fake backend serving handler and returns a pipeline
// client pointed at it. Handlers see the full path including the /api prefix.
func NewServerClient(t *testing.T, handler http.Handler, options ...transport.ClientOption) *transport.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := transport.NewClient(srv.URL, StaticSession{Token: "test-token"}, options...)
	require.NoError(t, err)
	return client
}
