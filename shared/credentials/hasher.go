package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Hasher names accepted by NewHasher.
const (
	HashBcrypt = "bcrypt"
	HashSHA256 = "sha256"
)

// PasswordHasher turns a plaintext password into the value kept in the
// password column, and checks a plaintext password against it.
type PasswordHasher interface {
	Name() string
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// NewHasher returns the hasher registered under name.
func NewHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", HashBcrypt:
		return NewBcryptHasher(bcrypt.DefaultCost), nil
	case HashSHA256:
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hash %q", name)
	}
}

// SHA256Hasher stores the unsalted hex SHA-256 of the password. Tables written
// by the first release of the app use this format.
type SHA256Hasher struct{}

func (SHA256Hasher) Name() string { return HashSHA256 }

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(hash, password string) bool {
	want, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(want)) == 1
}

// BcryptHasher stores a salted bcrypt hash. bcrypt reads at most 72 bytes,
// so longer passwords are first reduced to their hex SHA-256 digest.
type BcryptHasher struct {
	cost int
}

const bcryptMaxPassword = 72

func NewBcryptHasher(cost int) BcryptHasher {
	return BcryptHasher{cost: cost}
}

func (BcryptHasher) Name() string { return HashBcrypt }

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxPassword {
		return []byte(password)
	}
	digest, _ := SHA256Hasher{}.Hash(password)
	return []byte(digest)
}

var (
	sha256Shape = regexp.MustCompile(`^[0-9a-f]{64}$`)
	bcryptShape = regexp.MustCompile(`^\$2[abxy]\$\d{2}\$`)
)

// isLegacyHash reports whether a stored value is an unsalted SHA-256 hex digest.
func isLegacyHash(hash string) bool {
	return sha256Shape.MatchString(hash)
}

// isBcryptHash reports whether a stored value was written by BcryptHasher.
func isBcryptHash(hash string) bool {
	return bcryptShape.MatchString(hash)
}
