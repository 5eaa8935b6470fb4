package attendance

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const (
	codeAttempts   = 10
	createAttempts = 3
)

// GenerateCode returns a uniform random 6-digit check-in code.
func GenerateCode() (string, error) {
	value, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(value, big.NewInt(100000)).String(), nil
}

// GenerateToken returns the opaque 32-byte hex token carried in QR payloads
// and deep links. Unlike codes it is unguessable and globally unique.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// UniqueCode samples codes until one is free per the taken probe, giving up
// after a bounded attempt count. Collisions are astronomically unlikely but
// must surface as an error, not spin forever.
func UniqueCode(taken func(code string) (bool, error)) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		inUse, err := taken(code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}
