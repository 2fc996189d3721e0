// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/arcana-vip/internal/config"
	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/middleware"
)

const tokenTypeAccess = "access"

var ErrSigningDisabled = errors.New("signing key not loaded")

// JWTManager adapts the external identity provider. The API holds only the
// public key and verifies; signing is available when a private key is loaded,
// which only cmd/tokengen and tests do.
type JWTManager struct {
	signingKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
}

// NewVerifier loads the identity provider's public key from disk.
func NewVerifier(cfg config.JWTConfig) (*JWTManager, error) {
	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	publicKey, err := jwk.ParseKey(publicPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return newManager(nil, publicKey, cfg)
}

// NewIssuer loads the private key and derives the verification key from it.
func NewIssuer(cfg config.JWTConfig) (*JWTManager, error) {
	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privatePEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return issuerFromKey(privateKey, cfg)
}

// NewIssuerFromECDSA builds a signing manager around an in-memory key.
func NewIssuerFromECDSA(
	key *ecdsa.PrivateKey,
	cfg config.JWTConfig,
) (*JWTManager, error) {
	privateKey, err := jwk.Import(key)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}

	return issuerFromKey(privateKey, cfg)
}

func issuerFromKey(privateKey jwk.Key, cfg config.JWTConfig) (*JWTManager, error) {
	if err := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}

	var kid string
	if err := privateKey.Get(jwk.KeyIDKey, &kid); err != nil || kid == "" {
		if setErr := privateKey.Set(jwk.KeyIDKey, newKeyID()); setErr != nil {
			return nil, fmt.Errorf("set key id: %w", setErr)
		}
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	return newManager(privateKey, publicKey, cfg)
}

func newManager(
	signingKey, publicKey jwk.Key,
	cfg config.JWTConfig,
) (*JWTManager, error) {
	if err := publicKey.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}
	if err := publicKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	var kid string
	if err := publicKey.Get(jwk.KeyIDKey, &kid); err != nil || kid == "" {
		if setErr := publicKey.Set(jwk.KeyIDKey, newKeyID()); setErr != nil {
			return nil, fmt.Errorf("set key id: %w", setErr)
		}
	}

	set := jwk.NewSet()
	if err := set.AddKey(publicKey); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}

	return &JWTManager{
		signingKey: signingKey,
		publicKey:  publicKey,
		publicJWKS: set,
		config:     cfg,
	}, nil
}

func newKeyID() string {
	return uuid.New().String()[:8]
}

// GenerateKeyPair writes a fresh P-256 key pair in PEM form.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	privatePEM, err := jwk.Pem(private)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if err := os.WriteFile(privateKeyPath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(public)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is intentionally world-readable
	if err := os.WriteFile(publicKeyPath, publicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return nil
}

// Principal is what a minted token asserts about its subject.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (m *JWTManager) CreateAccessToken(p Principal) (string, error) {
	return m.createToken(p, m.config.AccessTokenExpire)
}

func (m *JWTManager) createToken(p Principal, ttl time.Duration) (string, error) {
	if m.signingKey == nil {
		return "", ErrSigningDisabled
	}

	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(p.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(ttl)).
		Claim("email", p.Email).
		Claim("role", p.Role).
		Claim("type", tokenTypeAccess).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signingKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime. The
// subject is the user id; email and role are optional claims.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeAccess {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.AccessTokenClaims{UserID: subject}
	_ = token.Get("email", &claims.Email) //nolint:errcheck // optional claim
	_ = token.Get("role", &claims.Role)   //nolint:errcheck // optional claim

	return claims, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			core.InternalServerError(w, err)
		}
	}
}

func (m *JWTManager) KeyID() string {
	var kid string
	//nolint:errcheck // key ID always set in newManager
	_ = m.publicKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

var _ middleware.TokenVerifier = (*JWTManager)(nil)
