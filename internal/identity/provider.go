package identity

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lcpu-club/openvscode-farm/internal/config"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/logging"
)

// Provider resolves the authenticated user id of a request. The
// implementation decides what counts as authenticated.
type Provider interface {
	Resolve(r *http.Request) (string, error)
}

// HeaderProvider trusts a token forwarded by an authenticating reverse
// proxy and only decodes its userId claim.
type HeaderProvider struct {
	Header string
}

// Resolve reads the token header and returns its validated user id.
func (p *HeaderProvider) Resolve(r *http.Request) (string, error) {
	token := r.Header.Get(p.Header)
	if token == "" {
		return "", errors.InvalidToken()
	}

	userID, err := ReadUserID(token)
	if err != nil {
		return "", err
	}

	return checkUserID(userID)
}

// HMACProvider verifies the token signature with a shared key before
// trusting its userId claim.
type HMACProvider struct {
	Header string
	Secret []byte
}

type farmClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Resolve verifies the token from the configured header.
func (p *HMACProvider) Resolve(r *http.Request) (string, error) {
	token := r.Header.Get(p.Header)
	if token == "" {
		return "", errors.InvalidToken()
	}

	return p.Verify(token)
}

// Verify checks the signature and registered claims of token and returns
// its user id.
func (p *HMACProvider) Verify(token string) (string, error) {
	claims := &farmClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.Secret, nil
	})
	if err != nil {
		logging.Debug("token verification failed", "error", err)
		return "", errors.InvalidToken()
	}

	if claims.UserID == "" {
		return "", errors.InvalidToken()
	}

	return checkUserID(claims.UserID)
}

// checkUserID rejects ids that are unsafe to embed in names and paths.
// The rejection is reported as InvalidToken so callers see one failure kind.
func checkUserID(userID string) (string, error) {
	if err := config.ValidateUserID(userID); err != nil {
		logging.Debug("rejected user id", "error", err)
		return "", errors.InvalidToken()
	}
	return userID, nil
}

// NewProvider builds the provider selected by cfg.IdentityMode.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.IdentityMode {
	case config.IdentityHeader, "":
		return &HeaderProvider{Header: cfg.IdentityHeader}, nil
	case config.IdentityHMAC:
		if cfg.HMACSecret == "" {
			return nil, errors.ConfigError("hmac identity mode requires a secret", nil)
		}
		return &HMACProvider{Header: cfg.IdentityHeader, Secret: []byte(cfg.HMACSecret)}, nil
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unknown identity mode %q", cfg.IdentityMode), nil)
	}
}
