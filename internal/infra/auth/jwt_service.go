// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"senghor/config"
	"senghor/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// It is stateless: all tokens are signed with one server-wide secret and
// carry their own expiry, so nothing is persisted and nothing can be revoked.
type jwtService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService is the constructor for jwtService.
// The secret, algorithm and time-to-lives come from configuration.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	method := jwt.GetSigningMethod(cfg.JWT.Algorithm)
	if method == nil {
		return nil, errors.Errorf("unknown jwt algorithm: %s", cfg.JWT.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("jwt algorithm %s is not an HMAC method", cfg.JWT.Algorithm)
	}

	return &jwtService{
		secret:     []byte(cfg.JWT.SecretKey),
		method:     method,
		accessTTL:  time.Duration(cfg.JWT.AccessTokenExpireMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.JWT.RefreshTokenExpireDays) * 24 * time.Hour,
	}, nil
}

// Generate creates a signed token of the given kind using its configured TTL.
func (s *jwtService) Generate(subject uuid.UUID, kind service.TokenKind) (string, error) {
	return s.generateToken(subject, kind, s.ttlFor(kind))
}

// GeneratePair creates an access token and a refresh token for the same
// subject. The two carry independent expiries and distinct jti values.
func (s *jwtService) GeneratePair(subject uuid.UUID) (string, string, error) {
	accessToken, err := s.Generate(subject, service.TokenKindAccess)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.Generate(subject, service.TokenKindRefresh)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Decode verifies the signature, algorithm and expiry of a token string and
// returns its claims. It does not interpret the token kind; callers must
// check Claims.Kind before trusting the payload.
func (s *jwtService) Decode(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Reject tokens signed with anything but the configured method.
		if token.Method.Alg() != s.method.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}

	subjectStr, _ := mapClaims["sub"].(string)
	subject, err := uuid.Parse(subjectStr)
	if err != nil {
		return nil, errors.New("missing or malformed subject claim")
	}

	kind, _ := mapClaims["type"].(string)
	tokenID, _ := mapClaims["jti"].(string)

	claims := &service.Claims{
		Subject: subject,
		Kind:    service.TokenKind(kind),
		TokenID: tokenID,
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}

// AccessTTL returns the configured duration for access tokens.
func (s *jwtService) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) ttlFor(kind service.TokenKind) time.Duration {
	if kind == service.TokenKindRefresh {
		return s.refreshTTL
	}

	return s.accessTTL
}

// generateToken is a private helper to create a JWT with specific claims.
// The jti claim makes two tokens issued for the same subject within the
// same second differ by content, not just timestamp.
func (s *jwtService) generateToken(subject uuid.UUID, kind service.TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  uuid.NewString(),
		"type": string(kind),
	}

	token := jwt.NewWithClaims(s.method, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}
