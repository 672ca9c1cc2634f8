package auth

import (
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "milluki-server"
	tokenAudience = "milluki-client"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// TokenService issues and verifies PASETO v4.local access tokens binding
// an identity's ID and email under a process-wide symmetric key. The key
// is loaded once at startup and never rotated while the process runs, so
// a token issued by this instance always verifies in this instance.
//
// tokenTTL of zero disables the expiry claim entirely, matching the
// historical behavior of this API; a positive TTL makes expiry a policy
// parameter.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	tokenTTL     time.Duration
}

// NewTokenService creates a token service from a hex-encoded 256-bit key.
func NewTokenService(keyHex string, tokenTTL time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: key,
		tokenTTL:     tokenTTL,
	}, nil
}

// IssueToken creates a signed token carrying the identity's ID and email.
func (s *TokenService) IssueToken(identityID, email string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(identityID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetJti(uuid.NewString())

	if s.tokenTTL > 0 {
		token.SetExpiration(now.Add(s.tokenTTL))
	}

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_id", identityID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("email", email)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken verifies and parses an access token, returning its claims.
// Any failure - garbage input, bad signature, wrong key, expired token -
// comes back as an error; callers treat every error as a malformed
// credential. A missing token never reaches this method.
func (s *TokenService) VerifyToken(tokenString string) (*IdentityClaims, error) {
	// Tokens without a TTL carry no exp claim, so the expiry rules that
	// NewParser installs by default would reject them.
	var parser paseto.Parser
	if s.tokenTTL > 0 {
		parser = paseto.NewParser()
		parser.AddRule(paseto.ValidAt(time.Now()))
	} else {
		parser = paseto.NewParserWithoutExpiryCheck()
	}
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims IdentityClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	return &claims, nil
}

// TokenTTL returns the configured token lifetime; zero means tokens never expire.
func (s *TokenService) TokenTTL() time.Duration {
	return s.tokenTTL
}
