package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/kvstore/kvstorefake"
	"github.com/kdmobility/go-fleet-client/session"
	"github.com/kdmobility/go-fleet-client/transport"
)

// fakeSession is a controllable SessionStore for pipeline tests.
type fakeSession struct {
	mu           sync.Mutex
	token        string
	newToken     string
	refreshErr   error
	refreshDelay time.Duration
	refreshCount int32
	cleared      bool
}

func (f *fakeSession) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) Refresh(ctx context.Context) (string, error) {
	atomic.AddInt32(&f.refreshCount, 1)
	if f.refreshDelay > 0 {
		time.Sleep(f.refreshDelay)
	}
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = f.newToken
	return f.newToken, nil
}

func (f *fakeSession) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
}

func (f *fakeSession) refreshes() int32 {
	return atomic.LoadInt32(&f.refreshCount)
}

func newTestClient(t *testing.T, sess transport.SessionStore, handler http.Handler, options ...transport.ClientOption) *transport.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := transport.NewClient(srv.URL, sess, options...)
	require.NoError(t, err)
	return client
}

func TestAttachesBearerToken(t *testing.T) {
	sess := &fakeSession{token: "access-1"}
	var gotAuth string

	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"ok":true}}`))
	}))

	_, err := client.Do(context.Background(), http.MethodGet, "/routes", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer access-1", gotAuth)
}

func TestUnauthenticatedRequestSentWithoutBearer(t *testing.T) {
	sess := &fakeSession{}
	var gotAuth string

	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))

	_, err := client.Do(context.Background(), http.MethodGet, "/routes", nil, nil)
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestAtMostOneReplay(t *testing.T) {
	sess := &fakeSession{token: "stale", newToken: "fresh"}
	var attempts int32

	// The endpoint keeps failing authorization even after a successful
	// refresh; the pipeline must stop after the single replay.
	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.Do(context.Background(), http.MethodGet, "/routes", nil, nil)
	require.Error(t, err)

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.EqualValues(t, 2, atomic.LoadInt32(&attempts))
	require.EqualValues(t, 1, sess.refreshes())
}

func TestSuccessfulRefreshReplaysRequestVerbatim(t *testing.T) {
	sess := &fakeSession{token: "stale", newToken: "fresh"}
	type seen struct {
		auth, method, path, body string
	}
	var requests []seen
	var mu sync.Mutex

	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, seen{
			auth:   r.Header.Get("Authorization"),
			method: r.Method,
			path:   r.URL.Path,
			body:   string(body),
		})
		mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"res-1"}}`))
	}))

	payload, err := client.Do(context.Background(), http.MethodPost, "/reservations", nil, map[string]string{"routeId": "route-1"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"res-1"}`, string(payload))

	require.Len(t, requests, 2)
	require.Equal(t, "Bearer stale", requests[0].auth)
	require.Equal(t, "Bearer fresh", requests[1].auth)
	// Same method, path and body on the replay.
	require.Equal(t, requests[0].method, requests[1].method)
	require.Equal(t, requests[0].path, requests[1].path)
	require.Equal(t, requests[0].body, requests[1].body)
}

func TestRefreshFailureClearsSessionAndPropagates(t *testing.T) {
	// End to end with the real session manager: a 401 on the resource and a
	// rejected refresh must clear all three storage keys.
	store := kvstorefake.NewFakeStore()
	require.NoError(t, store.Set(session.AccessTokenKey, "stale"))
	require.NoError(t, store.Set(session.RefreshTokenKey, "stale-refresh"))
	require.NoError(t, store.Set(session.UserKey, `{"id":"user-1"}`))

	handler := http.NewServeMux()
	handler.HandleFunc("/api/routes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	handler.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	manager, err := session.NewManager(store, srv.URL)
	require.NoError(t, err)

	expired := false
	client, err := transport.NewClient(srv.URL, manager,
		transport.WithSessionExpiredHook(func() { expired = true }))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/routes", nil, nil)
	require.ErrorIs(t, err, transport.SessionExpiredErr)
	require.True(t, expired)
	require.Equal(t, 0, store.Len())
}

func TestNonAuthFailuresAreNotRetried(t *testing.T) {
	sess := &fakeSession{token: "access-1"}
	var attempts int32

	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))

	_, err := client.Do(context.Background(), http.MethodGet, "/routes", nil, nil)
	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "boom", apiErr.Message)
	require.EqualValues(t, 1, atomic.LoadInt32(&attempts))
	require.EqualValues(t, 0, sess.refreshes())
}

func TestConcurrentAuthFailuresShareOneRefresh(t *testing.T) {
	const parallel = 5

	sess := &fakeSession{token: "stale", newToken: "fresh", refreshDelay: 100 * time.Millisecond}

	// Hold the first wave of stale-token requests until all have arrived so
	// every caller observes the 401 before any refresh completes.
	var barrier sync.WaitGroup
	barrier.Add(parallel)

	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			barrier.Done()
			barrier.Wait()
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))

	var wg sync.WaitGroup
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Do(context.Background(), http.MethodGet, "/vehicles", nil, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, sess.refreshes())
}

func TestNetworkErrorPropagates(t *testing.T) {
	sess := &fakeSession{token: "access-1"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client, err := transport.NewClient(srv.URL, sess)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/routes", nil, nil)
	require.Error(t, err)
	var apiErr *transport.APIError
	require.False(t, errors.As(err, &apiErr))
	require.EqualValues(t, 0, sess.refreshes())
}

func TestEnvelopeCollapse(t *testing.T) {
	sess := &fakeSession{token: "access-1"}

	client := newTestClient(t, sess, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/wrapped":
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"a"},"message":"ok","timestamp":"2026-01-01T00:00:00Z"}`))
		case "/api/bare":
			_, _ = w.Write([]byte(`{"id":"b"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	type entity struct {
		ID string `json:"id"`
	}

	wrapped, err := transport.Get[entity](context.Background(), client, "/wrapped", nil)
	require.NoError(t, err)
	require.Equal(t, "a", wrapped.ID)

	bare, err := transport.Get[entity](context.Background(), client, "/bare", nil)
	require.NoError(t, err)
	require.Equal(t, "b", bare.ID)
}
