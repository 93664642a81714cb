package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"family-finance-go/internal/domain/identity"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = apperr.Unauthenticated("invalid or expired token")
	ErrWrongTokenType = apperr.Unauthenticated("wrong token type")
)

// Claims is the payload carried by both token types.
type Claims struct {
	Role  access.Role `json:"role"`
	Email string      `json:"email"`
	Type  string      `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access           string
	Refresh          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// UserResolver reloads the account behind a refresh token.
type UserResolver interface {
	ResolveActive(ctx context.Context, id string) (*identity.User, error)
}

// TokenManager issues and verifies HS256 signed JWTs.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) IssuePair(user identity.User) (Pair, error) {
	now := m.now()
	accessToken, accessExp, err := m.sign(user, TokenTypeAccess, now, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refreshToken, refreshExp, err := m.sign(user, TokenTypeRefresh, now, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Access:           accessToken,
		Refresh:          refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ParseAccess validates an access token and returns the principal snapshot it carries.
func (m *TokenManager) ParseAccess(token string) (access.Principal, error) {
	claims, err := m.parse(token, TokenTypeAccess)
	if err != nil {
		return access.Principal{}, err
	}
	if !claims.Role.Valid() {
		return access.Principal{}, ErrInvalidToken
	}
	return access.Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so a
// role change or deactivation takes effect.
func (m *TokenManager) Refresh(ctx context.Context, token string, users UserResolver) (Pair, *identity.User, error) {
	claims, err := m.parse(token, TokenTypeRefresh)
	if err != nil {
		return Pair{}, nil, err
	}
	user, err := users.ResolveActive(ctx, claims.Subject)
	if err != nil {
		return Pair{}, nil, err
	}
	pair, err := m.IssuePair(*user)
	if err != nil {
		return Pair{}, nil, err
	}
	return pair, user, nil
}

func (m *TokenManager) sign(user identity.User, tokenType string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		Role:  user.Role,
		Email: user.Email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) parse(token, tokenType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
