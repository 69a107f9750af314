package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"devlinks/internal/logger"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. Changing them invalidates every stored hash, so they
// are fixed constants rather than configuration.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64

	saltBytes = 16
)

// credentialService is the concrete implementation of [CredentialService].
// Passwords are derived with scrypt and stored hex-encoded next to their
// per-user random salt. Verification is constant-time and fails closed:
// malformed stored material never verifies.
type credentialService struct {
	logger *logger.Logger
}

// NewCredentialService constructs a [CredentialService]. The returned
// service is stateless and safe for concurrent use.
func NewCredentialService(logger *logger.Logger) CredentialService {
	return &credentialService{logger: logger}
}

// GenerateSalt returns a fresh hex-encoded random salt.
func (c *credentialService) GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Hash derives the storable hex-encoded scrypt key for the given password
// and hex-encoded salt.
func (c *credentialService) Hash(password, salt string) (string, error) {
	if password == "" || salt == "" {
		return "", ErrInvalidDataProvided
	}

	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("error decoding salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), rawSalt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("error deriving password hash: %w", err)
	}

	return hex.EncodeToString(key), nil
}

// Verify reports whether password matches the stored hash under the stored
// salt. The comparison is constant-time. Any failure while processing the
// stored material (bad hex, wrong length) verifies as false without
// surfacing an error: on the login path a corrupt record must look exactly
// like a wrong password.
func (c *credentialService) Verify(storedHash, password, salt string) bool {
	expected, err := hex.DecodeString(storedHash)
	if err != nil || len(expected) != scryptKeyLen {
		c.logger.Warn().Str("func", "credentialService.Verify").Msg("malformed stored hash")
		return false
	}

	computedHex, err := c.Hash(password, salt)
	if err != nil {
		c.logger.Warn().Str("func", "credentialService.Verify").Msg("failed to derive comparison hash")
		return false
	}
	computed, err := hex.DecodeString(computedHex)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(expected, computed) == 1
}
