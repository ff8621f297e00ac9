package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/internal/envelope"
	"github.com/kdmobility/go-fleet-client/kvstore"
)

const maxBodyBytes = 4 << 20

// Doer issues HTTP requests. The manager talks to the auth endpoints with a
// plain client, never through the request pipeline, so a refresh can never
// recurse into another refresh.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Manager owns login, logout, silent refresh and the persisted session state.
type Manager struct {
	store   kvstore.Store
	httpc   Doer
	baseURL string
	log     zerolog.Logger
	nowTime func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHTTPClient overrides the HTTP client used for the auth endpoints.
func WithHTTPClient(d Doer) ManagerOption {
	return func(m *Manager) { m.httpc = d }
}

// WithLogger sets the manager's logger.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) { m.nowTime = nowFunc }
}

// NewManager initializes a Manager persisting to store and calling the auth
// endpoints under baseURL (the "/api" prefix is appended here).
func NewManager(store kvstore.Store, baseURL string, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewManager] baseURL is required")
	}

	m := &Manager{
		store:   store,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

type loginTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// The login payload has been observed both flat and with a nested tokens
// object; both are accepted.
type loginPayload struct {
	User         *fleet.User  `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Tokens       *loginTokens `json:"tokens"`
}

// Login authenticates against the backend and persists the resulting session.
// Stored state is not touched on failure.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	status, payload, message, err := m.doJSON(ctx, http.MethodPost, "/auth/login", body, "")
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] request")
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest {
		return nil, errors.Wrap(InvalidCredentialsErr, "[Manager.Login] "+message)
	}
	if status < 200 || status > 299 {
		return nil, errors.Errorf("[Manager.Login] unexpected status %d: %s", status, message)
	}

	var lp loginPayload
	if err := json.Unmarshal(payload, &lp); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] decode payload")
	}
	accessToken, refreshToken := lp.AccessToken, lp.RefreshToken
	if lp.Tokens != nil {
		accessToken, refreshToken = lp.Tokens.AccessToken, lp.Tokens.RefreshToken
	}
	if accessToken == "" {
		return nil, errors.New("[Manager.Login] login payload missing access token")
	}

	if err := m.persist(accessToken, refreshToken, lp.User); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] persist")
	}

	m.log.Info().Str("email", email).Msg("logged in")
	return &Session{
		User:            lp.User,
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		IsAuthenticated: true,
	}, nil
}

// Logout calls the remote logout endpoint best-effort and unconditionally
// clears the persisted session. It never fails and is safe to call twice.
func (m *Manager) Logout(ctx context.Context) {
	if token := m.AccessToken(); token != "" {
		if status, _, _, err := m.doJSON(ctx, http.MethodPost, "/auth/logout", nil, token); err != nil {
			m.log.Warn().Err(err).Msg("remote logout failed")
		} else if status < 200 || status > 299 {
			m.log.Warn().Int("status", status).Msg("remote logout rejected")
		}
	}
	m.Clear()
}

// RefreshSilently exchanges the stored refresh token for a new pair and
// persists it.
func (m *Manager) RefreshSilently(ctx context.Context) (TokenPair, error) {
	refreshToken := m.storedValue(RefreshTokenKey)
	if refreshToken == "" {
		return TokenPair{}, NoRefreshTokenErr
	}

	status, payload, message, err := m.doJSON(ctx, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refreshToken}, "")
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "[Manager.RefreshSilently] request")
	}
	if status < 200 || status > 299 {
		return TokenPair{}, errors.Wrapf(RefreshRejectedErr, "[Manager.RefreshSilently] status %d: %s", status, message)
	}

	var lp loginPayload
	if err := json.Unmarshal(payload, &lp); err != nil {
		return TokenPair{}, errors.Wrap(err, "[Manager.RefreshSilently] decode payload")
	}
	pair := TokenPair{AccessToken: lp.AccessToken, RefreshToken: lp.RefreshToken}
	if lp.Tokens != nil {
		pair = TokenPair{AccessToken: lp.Tokens.AccessToken, RefreshToken: lp.Tokens.RefreshToken}
	}
	if pair.AccessToken == "" {
		return TokenPair{}, errors.Wrap(RefreshRejectedErr, "[Manager.RefreshSilently] payload missing access token")
	}

	if err := m.store.Set(AccessTokenKey, pair.AccessToken); err != nil {
		return TokenPair{}, errors.Wrap(err, "[Manager.RefreshSilently] persist access token")
	}
	if err := m.store.Set(RefreshTokenKey, pair.RefreshToken); err != nil {
		return TokenPair{}, errors.Wrap(err, "[Manager.RefreshSilently] persist refresh token")
	}
	return pair, nil
}

// Refresh adapts RefreshSilently to the request pipeline's session contract,
// returning only the new access token.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	pair, err := m.RefreshSilently(ctx)
	if err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// FetchProfile re-fetches the authenticated user from the backend.
func (m *Manager) FetchProfile(ctx context.Context) (*fleet.User, error) {
	status, payload, message, err := m.doJSON(ctx, http.MethodGet, "/auth/profile", nil, m.AccessToken())
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.FetchProfile] request")
	}
	if status == http.StatusUnauthorized {
		return nil, errors.Wrap(UnauthorizedErr, "[Manager.FetchProfile]")
	}
	if status < 200 || status > 299 {
		return nil, errors.Errorf("[Manager.FetchProfile] unexpected status %d: %s", status, message)
	}

	var user fleet.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, errors.Wrap(err, "[Manager.FetchProfile] decode user")
	}
	return &user, nil
}

// ChangePassword updates the current user's password.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	status, _, message, err := m.doJSON(ctx, http.MethodPost, "/auth/change-password", body, m.AccessToken())
	if err != nil {
		return errors.Wrap(err, "[Manager.ChangePassword] request")
	}
	if status == http.StatusUnauthorized {
		return errors.Wrap(UnauthorizedErr, "[Manager.ChangePassword]")
	}
	if status < 200 || status > 299 {
		return errors.Errorf("[Manager.ChangePassword] unexpected status %d: %s", status, message)
	}
	return nil
}

// AccessToken returns the persisted access token or "".
func (m *Manager) AccessToken() string {
	return m.storedValue(AccessTokenKey)
}

// StoredUser returns the persisted user snapshot. A missing or corrupt record
// yields nil.
func (m *Manager) StoredUser() *fleet.User {
	raw := m.storedValue(UserKey)
	if raw == "" {
		return nil
	}
	var user fleet.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn().Err(err).Msg("stored user record is corrupt")
		return nil
	}
	return &user
}

// IsAuthenticated reports whether an access token is persisted. Staleness is
// only discovered on the first failing request.
func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// TokenExpiresAt reads the exp claim of the stored access token without
// verifying its signature. Returns the zero time for absent or opaque tokens.
func (m *Manager) TokenExpiresAt() time.Time {
	raw := m.AccessToken()
	if raw == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// TokenExpired reports whether the stored access token carries an exp claim
// in the past. Opaque or absent tokens are never considered expired here.
func (m *Manager) TokenExpired() bool {
	exp := m.TokenExpiresAt()
	return !exp.IsZero() && exp.Before(m.nowTime())
}

// Clear removes all persisted session state.
func (m *Manager) Clear() {
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, UserKey} {
		if err := m.store.Delete(key); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("failed to clear session key")
		}
	}
}

func (m *Manager) persist(accessToken, refreshToken string, user *fleet.User) error {
	if err := m.store.Set(AccessTokenKey, accessToken); err != nil {
		return err
	}
	if err := m.store.Set(RefreshTokenKey, refreshToken); err != nil {
		return err
	}
	if user != nil {
		b, err := json.Marshal(user)
		if err != nil {
			return err
		}
		return m.store.Set(UserKey, string(b))
	}
	return nil
}

func (m *Manager) storedValue(key string) string {
	v, err := m.store.Get(key)
	if err != nil {
		return ""
	}
	return v
}

func (m *Manager) doJSON(ctx context.Context, method, path string, body any, bearer string) (int, json.RawMessage, string, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, "", err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return 0, nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := m.httpc.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, "", err
	}

	payload, message := envelope.Unwrap(raw)
	return resp.StatusCode, payload, message, nil
}
