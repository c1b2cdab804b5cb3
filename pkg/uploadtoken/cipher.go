// Package uploadtoken seals verification ids into opaque tokens for the
// CNIC upload link. Tokens are AES-256-GCM with a fresh random nonce each
// time, hex encoded as "nonce:tag:ciphertext". The compact "nonce:ciphertext"
// form (12 byte nonce, tag appended to the ciphertext) is accepted on decrypt.
package uploadtoken

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	nonceSize        = 16
	compactNonceSize = 12
	tagSize          = 16
)

var (
	// ErrMissingSecret is returned by New when no secret is configured
	ErrMissingSecret = errors.New("upload token secret is not set")
	// ErrInvalidToken is the kind of every decrypt failure
	ErrInvalidToken = errors.New("invalid upload token")
)

// Cipher encrypts and decrypts upload tokens with one server-held secret
type Cipher struct {
	aead        cipher.AEAD
	compactAEAD cipher.AEAD
}

// New derives a 256-bit key from secret with SHA-256
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	compactAEAD, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return &Cipher{aead: aead, compactAEAD: compactAEAD}, nil
}

// Encrypt seals plaintext into "nonce:tag:ciphertext"
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]
	return fmt.Sprintf("%x:%x:%x", nonce, tag, ciphertext), nil
}

// Decrypt opens a token produced by Encrypt, or a compact token.
// Every failure wraps ErrInvalidToken.
func (c *Cipher) Decrypt(token string) (string, error) {
	parts := strings.Split(token, ":")
	switch len(parts) {
	case 3:
		nonce, err := decodePart(parts[0], nonceSize)
		if err != nil {
			return "", err
		}
		tag, err := decodePart(parts[1], tagSize)
		if err != nil {
			return "", err
		}
		ciphertext, err := hex.DecodeString(parts[2])
		if err != nil {
			return "", fmt.Errorf("%w: ciphertext is not hex", ErrInvalidToken)
		}
		return open(c.aead, nonce, append(ciphertext, tag...))
	case 2:
		nonce, err := decodePart(parts[0], compactNonceSize)
		if err != nil {
			return "", err
		}
		sealed, err := hex.DecodeString(parts[1])
		if err != nil || len(sealed) < tagSize {
			return "", fmt.Errorf("%w: ciphertext is not hex", ErrInvalidToken)
		}
		return open(c.compactAEAD, nonce, sealed)
	default:
		return "", fmt.Errorf("%w: expected nonce:tag:ciphertext", ErrInvalidToken)
	}
}

func decodePart(part string, size int) ([]byte, error) {
	b, err := hex.DecodeString(part)
	if err != nil || len(b) != size {
		return nil, fmt.Errorf("%w: expected %d hex-encoded bytes", ErrInvalidToken, size)
	}
	return b, nil
}

func open(aead cipher.AEAD, nonce, sealed []byte) (string, error) {
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrInvalidToken)
	}
	return string(plaintext), nil
}
