package model

import "time"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthClaims is the verified content of an access or refresh token.
// RefreshTokenID is only set on access tokens and links them to the
// refresh token issued in the same login.
type AuthClaims struct {
	UserID         string    `json:"sub"`
	Type           string    `json:"typ"`
	TokenID        string    `json:"jti"`
	RefreshTokenID string    `json:"refresh_jti,omitempty"`
	ExpiresAt      time.Time `json:"exp"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type BlacklistEntry struct {
	ID        int64     `json:"id"`
	JTI       string    `json:"jti"`
	CreatedAt time.Time `json:"created_at"`
}
