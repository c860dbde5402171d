package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// tokenClaims is the wire shape of the signed payload. The registered claims
// carry sub/iat/exp; the rest is the identity claim-set.
type tokenClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) toDomain() domain.Claims {
	out := domain.Claims{
		Sub:      c.Subject,
		Email:    c.Email,
		Username: c.Username,
		Role:     c.Role,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

// JWTTokenService signs and verifies HS256 access and refresh tokens. Access
// and refresh tokens use distinct secrets; a token signed with one never
// verifies against the other.
type JWTTokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     string
	refreshTTL    string
	log           zerolog.Logger
}

func NewJWTTokenService(accessSecret, refreshSecret, accessTTL, refreshTTL string, log zerolog.Logger) *JWTTokenService {
	if accessTTL == "" {
		accessTTL = "15m"
	}
	if refreshTTL == "" {
		refreshTTL = "7d"
	}
	return &JWTTokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		log:           log,
	}
}

// IssueAccess signs the claim-set with the access secret and the configured
// access TTL.
func (s *JWTTokenService) IssueAccess(claims domain.Claims) (string, error) {
	return s.sign(claims, s.accessSecret, ttlSeconds(s.accessTTL))
}

// IssueRefresh signs the same claim-set with the refresh secret and the
// longer refresh TTL.
func (s *JWTTokenService) IssueRefresh(claims domain.Claims) (string, error) {
	return s.sign(claims, s.refreshSecret, ttlSeconds(s.refreshTTL))
}

func (s *JWTTokenService) sign(claims domain.Claims, secret []byte, ttlSec int) (string, error) {
	now := time.Now().UTC()
	tc := tokenClaims{
		Email:    claims.Email,
		Username: claims.Username,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlSec) * time.Second)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &tc).SignedString(secret)
}

// VerifyAccess validates signature and expiry against the access secret.
func (s *JWTTokenService) VerifyAccess(token string) (domain.Claims, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh validates signature and expiry against the refresh secret.
func (s *JWTTokenService) VerifyRefresh(token string) (domain.Claims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *JWTTokenService) verify(token string, secret []byte) (domain.Claims, error) {
	tc := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, tc, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		// The cause stays server-side; clients only ever see ErrInvalidToken.
		s.log.Debug().Err(err).Msg("token verification failed")
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims := tc.toDomain()
	if !claims.Complete() {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

// Decode parses the token payload without verifying the signature. It fails
// on malformed tokens and on payloads missing required identity fields.
func (s *JWTTokenService) Decode(token string) (domain.Claims, error) {
	tc := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, tc); err != nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims := tc.toDomain()
	if !claims.Complete() {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

// ExpirationSeconds converts the configured access TTL into seconds.
func (s *JWTTokenService) ExpirationSeconds() int {
	return ttlSeconds(s.accessTTL)
}

// ttlSeconds parses a "<number><unit>" TTL where the unit is m, h or d. An
// unrecognized unit yields the bare numeric value, a long-standing quirk the
// clients depend on.
func ttlSeconds(ttl string) int {
	n := 0
	i := 0
	for i < len(ttl) && ttl[i] >= '0' && ttl[i] <= '9' {
		n = n*10 + int(ttl[i]-'0')
		i++
	}
	if i == len(ttl) {
		return n
	}
	switch ttl[i] {
	case 'm':
		return n * 60
	case 'h':
		return n * 3600
	case 'd':
		return n * 86400
	}
	return n
}
