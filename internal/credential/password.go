package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgoPBKDF2 = "pbkdf2"
	AlgoBcrypt = "bcrypt"

	pbkdf2Prefix  = "pbkdf2:sha256:"
	saltBytes     = 16
	pbkdf2KeySize = 32
)

// PasswordHasher hashes with the configured algorithm and verifies hashes
// produced by either supported algorithm.
type PasswordHasher struct {
	algo       string
	iterations int
	cost       int
}

func NewPasswordHasher(algo string, iterations int, bcryptCost int) (*PasswordHasher, error) {
	switch algo {
	case AlgoPBKDF2:
		if iterations <= 0 {
			return nil, fmt.Errorf("pbkdf2 iterations must be positive")
		}
	case AlgoBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", bcryptCost)
		}
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algo)
	}

	return &PasswordHasher{algo: algo, iterations: iterations, cost: bcryptCost}, nil
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if h.algo == AlgoBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(hash), nil
	}

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key := pbkdf2.Key([]byte(plaintext), []byte(saltHex), h.iterations, pbkdf2KeySize, sha256.New)

	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, h.iterations, saltHex, hex.EncodeToString(key)), nil
}

// Verify never fails loudly: malformed or unknown hashes are a mismatch.
func (h *PasswordHasher) Verify(plaintext string, hash string) bool {
	switch {
	case strings.HasPrefix(hash, pbkdf2Prefix):
		return verifyPBKDF2(plaintext, hash)
	case strings.HasPrefix(hash, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	default:
		return false
	}
}

func verifyPBKDF2(plaintext string, hash string) bool {
	parts := strings.Split(strings.TrimPrefix(hash, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(plaintext), []byte(parts[1]), iterations, len(want), sha256.New)

	return subtle.ConstantTimeCompare(got, want) == 1
}
