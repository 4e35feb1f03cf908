package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidMasterKey = errors.New("invalid master key")

// VerifyMasterKey compares a candidate admin master key with its stored bcrypt hash.
func VerifyMasterKey(hash, candidate string) error {
	if hash == "" || candidate == "" {
		return ErrInvalidMasterKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)); err != nil {
		return ErrInvalidMasterKey
	}
	return nil
}

// HashMasterKey produces the value stored in admin.master_key_hash.
func HashMasterKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
