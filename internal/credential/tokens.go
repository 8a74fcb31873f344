package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"library-catalog/internal/model"
)

// TokenManager signs and verifies HS256 tokens. It does not know about
// revocation; callers consult the blacklist separately.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *TokenManager) IssueRefreshToken(userID string) (string, string, time.Time, error) {
	return m.issue(userID, model.TokenTypeRefresh, m.refreshTTL, nil)
}

// IssueAccessToken links the access token to refreshJTI so logout can revoke both.
func (m *TokenManager) IssueAccessToken(userID string, refreshJTI string, extra map[string]any) (string, string, time.Time, error) {
	claims := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		claims[k] = v
	}
	if refreshJTI != "" {
		claims["refresh_jti"] = refreshJTI
	}

	return m.issue(userID, model.TokenTypeAccess, m.accessTTL, claims)
}

func (m *TokenManager) IssuePair(userID string) (model.TokenPair, error) {
	refreshToken, refreshJTI, _, err := m.IssueRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	accessToken, _, _, err := m.IssueAccessToken(userID, refreshJTI, nil)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

func (m *TokenManager) issue(userID string, tokenType string, ttl time.Duration, extra map[string]any) (string, string, time.Time, error) {
	if userID == "" {
		return "", "", time.Time{}, fmt.Errorf("token subject is required")
	}

	now := m.now()
	jti := uuid.NewString()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = userID
	claims["typ"] = tokenType
	claims["jti"] = jti
	claims["iat"] = now.Unix()
	claims["nbf"] = now.Unix()
	claims["exp"] = expiresAt.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signed, jti, expiresAt, nil
}

// Verify checks signature, expiry and token type. Any failure is model.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, fmt.Errorf("%w: expected %s token", model.ErrInvalidToken, expectedType)
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)
	claims.RefreshTokenID, _ = claimsMap["refresh_jti"].(string)

	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.UserID == "" || claims.TokenID == "" {
		return nil, fmt.Errorf("%w: missing subject or id", model.ErrInvalidToken)
	}

	return claims, nil
}
