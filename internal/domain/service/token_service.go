package service

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind discriminates the two bearer token flavors issued by the codec.
// Every consumer must check the kind before trusting a decoded payload.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential authorizing API calls.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the longer-lived credential exchangeable for a new pair.
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Subject   uuid.UUID // The user the token was issued for.
	Kind      TokenKind // access or refresh.
	TokenID   string    // Random per-token identifier; makes same-second pairs distinct.
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// TokenService defines the interface for generating and validating signed,
// self-contained bearer tokens. Implementations are stateless: possession
// of a structurally valid, unexpired token is the credential, and there is
// no server-side revocation.
type TokenService interface {
	// Generate creates a signed token of the given kind for a subject,
	// using the kind's configured time-to-live.
	Generate(subject uuid.UUID, kind TokenKind) (string, error)

	// GeneratePair creates one access token and one refresh token for the
	// same subject with independent expiries.
	GeneratePair(subject uuid.UUID) (accessToken string, refreshToken string, err error)

	// Decode verifies the signature, algorithm and expiry of a token and
	// returns its claims. Any failure yields a nil Claims and an error;
	// Decode never panics. The kind carried by the claims is not
	// interpreted here.
	Decode(token string) (*Claims, error)

	// AccessTTL returns the configured lifetime of access tokens.
	AccessTTL() time.Duration

	// RefreshTTL returns the configured lifetime of refresh tokens.
	RefreshTTL() time.Duration
}
