package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/frahmantamala/crm-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenName labels the rows written for login tokens.
const TokenName = "authToken"

// IssuedToken is a freshly signed bearer token together with the id that
// backs its revocation row.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt *time.Time
}

// TokenGenerator creates and verifies signed bearer tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string) (IssuedToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims. RegisteredClaims.ID carries the jti.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
}

// Credentials is what login needs to verify a password.
type Credentials struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}

// TokenRecord is the stored side of an issued token.
type TokenRecord struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	ExpiresAt *time.Time `db:"expires_at"`
}

func (t *TokenRecord) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

type LoginResponse struct {
	User  *user.Response `json:"user"`
	Token string         `json:"token"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// HashTokenID returns the value stored in access_tokens.token_hash.
func HashTokenID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}
