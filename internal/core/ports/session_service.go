package ports

import (
	"context"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// TokenPair carries both signed tokens plus the access token lifetime in
// seconds, as returned to clients.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ImageUpload is an in-memory uploaded file handed to the image store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadedImage is the result of storing an image externally.
type UploadedImage struct {
	URL      string
	PublicID string
}

// RegisterInput carries all registration fields. BirthDate uses the
// YYYY-MM-DD wire format.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	BirthDate       string
	Bio             string
	ProfileImage    *ImageUpload // optional
}

// AuthResult is the outcome of a successful register, login or refresh.
type AuthResult struct {
	Tokens TokenPair
	User   *domain.User
}

// SessionService orchestrates the five session state transitions. Logout has
// no server-side effect (stateless JWTs) and is handled entirely at the
// transport layer by clearing cookies.
type SessionService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	// Login resolves the user by email (case-insensitive) or username.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	// Refresh verifies the refresh token, re-fetches the live user state and
	// rotates both tokens. Disabled or deleted accounts are rejected.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	// Authorize validates an access token and confirms the subject is still
	// an active account.
	Authorize(ctx context.Context, accessToken string) (domain.Claims, error)
}

// TokenService creates and verifies the two classes of signed tokens.
type TokenService interface {
	IssueAccess(claims domain.Claims) (string, error)
	IssueRefresh(claims domain.Claims) (string, error)
	VerifyAccess(token string) (domain.Claims, error)
	VerifyRefresh(token string) (domain.Claims, error)
	// Decode parses the payload without verifying the signature. Only for
	// non-trust-boundary inspection.
	Decode(token string) (domain.Claims, error)
	// ExpirationSeconds converts the configured access TTL to seconds.
	ExpirationSeconds() int
}

// PasswordHasher provides one-way hashing and verification of credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
	MeetsStrengthPolicy(plaintext string) bool
}

// ImageStore uploads and removes user content images.
type ImageStore interface {
	Upload(ctx context.Context, file ImageUpload) (*UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

// LoginRateLimiter throttles repeated failed logins per identifier.
type LoginRateLimiter interface {
	// Allow reports whether another attempt is permitted.
	Allow(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, identifier string) error
}
