// Package auth provides bearer-token issuance and verification, password
// hashing, and the gin middleware gating protected routes.
package auth

import (
	"fmt"
	"time"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTTL    = 24 * time.Hour
	defaultIssuer = "workforce"
)

// TokenConfig holds the signing parameters. The secret is injected by the
// caller at construction; rotating it invalidates all outstanding tokens.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenService issues and verifies signed, time-limited bearer tokens
// binding a principal's identity, type, and tenant affiliation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenService constructs a TokenService from the given config,
// applying the 24h default validity window when TTL is unset.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		issuer: issuer,
	}, nil
}

// Issue signs a token for the principal. Employee tokens additionally carry
// the owning company ID.
func (s *TokenService) Issue(p models.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": p.ID.String(),
		"typ": string(p.Type),
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
		"iss": s.issuer,
	}
	if p.Type == models.PrincipalEmployee {
		claims["cid"] = p.CompanyID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token signature and expiry and decodes the Principal.
// Malformed, expired, and badly-signed tokens all fail with the same
// ErrUnauthorized so callers learn nothing about why.
func (s *TokenService) Verify(tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Principal{}, e.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Principal{}, e.ErrUnauthorized
	}
	return principalFromClaims(claims)
}

func principalFromClaims(claims jwt.MapClaims) (models.Principal, error) {
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.Principal{}, e.ErrUnauthorized
	}

	typ, _ := claims["typ"].(string)
	principalType, err := models.ParsePrincipalType(typ)
	if err != nil {
		return models.Principal{}, e.ErrUnauthorized
	}

	// Company principals are their own tenant.
	companyID := id
	if principalType == models.PrincipalEmployee {
		cid, _ := claims["cid"].(string)
		companyID, err = uuid.Parse(cid)
		if err != nil {
			return models.Principal{}, e.ErrUnauthorized
		}
	}

	return models.Principal{
		ID:        id,
		Type:      principalType,
		CompanyID: companyID,
	}, nil
}
