package crypto

import (
	"github.com/itchan-dev/modcore/shared/errors"
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// PasswordHasher hashes staff passwords for storage and checks them on login.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type Bcrypt struct {
	Cost int
}

func NewBcrypt() *Bcrypt {
	return &Bcrypt{Cost: passwordCost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = passwordCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", &errors.InternalError{Op: "hash_password", Err: err}
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. An empty or malformed hash never matches.
func (b *Bcrypt) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var defaultHasher = NewBcrypt()

func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

func VerifyPassword(password, hash string) bool {
	return defaultHasher.Verify(password, hash)
}
