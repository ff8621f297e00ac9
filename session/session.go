// Package session owns the credential pair and the authenticated-user
// snapshot. It is the single source of truth for "who is logged in"; every
// mutation writes through to durable storage before returning so a process
// restart observes the latest state.
package session

import "github.com/kdmobility/go-fleet-client/fleet"

// Storage keys the session state is persisted under. All three are written on
// login and cleared as a group on logout.
const (
	AccessTokenKey  = "kd_access_token"
	RefreshTokenKey = "kd_refresh_token"
	UserKey         = "kd_user"
)

// Session is the populated authentication state returned by Login.
type Session struct {
	User            *fleet.User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
}

// TokenPair is the credential pair returned by a successful silent refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
