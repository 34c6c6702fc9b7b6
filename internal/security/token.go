package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kidsmoney/internal/models"
)

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid token")

const tokenIssuer = "kidsmoney"

// Claims identifies the caller. Subject is the user id for parents and the kid id for kids;
// ParentID is set only on kid tokens.
type Claims struct {
	Role     string `json:"role"`
	ParentID string `json:"parent_id,omitempty"`
	jwt.RegisteredClaims
}

// IsParent reports whether the token belongs to a parent
func (c *Claims) IsParent() bool {
	return c.Role == models.RoleParent
}

// IsKid reports whether the token belongs to a kid
func (c *Claims) IsKid() bool {
	return c.Role == models.RoleKid
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer using secret for signing
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueParent creates a token for a parent account
func (i *TokenIssuer) IssueParent(userID string) (string, error) {
	return i.issue(Claims{Role: models.RoleParent}, userID)
}

// IssueKid creates a token for a kid acting under parentID
func (i *TokenIssuer) IssueKid(kidID, parentID string) (string, error) {
	return i.issue(Claims{Role: models.RoleKid, ParentID: parentID}, kidID)
}

func (i *TokenIssuer) issue(claims Claims, subject string) (string, error) {
	issuedAt := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its claims
func (i *TokenIssuer) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || (!claims.IsParent() && !claims.IsKid()) {
		return nil, ErrInvalidToken
	}
	if claims.IsKid() && claims.ParentID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
