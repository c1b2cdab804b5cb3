package uploadtoken

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCipher(t *testing.T, secret string) *Cipher {
	t.Helper()
	c, err := New(secret)
	require.NoError(t, err)
	return c
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestRoundTrip(t *testing.T) {
	c := newCipher(t, "campaign-secret")
	for _, id := range []string{"65f1c2a9e4b0a1b2c3d4e5f6", "x", "id with spaces and ü"} {
		token, err := c.Encrypt(id)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, ":"), 3)

		got, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	c := newCipher(t, "campaign-secret")
	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsMalformed(t *testing.T) {
	c := newCipher(t, "campaign-secret")
	valid, err := c.Encrypt("65f1c2a9e4b0a1b2c3d4e5f6")
	require.NoError(t, err)
	parts := strings.Split(valid, ":")

	cases := map[string]string{
		"empty":          "",
		"single part":    "deadbeef",
		"four parts":     valid + ":00",
		"non hex nonce":  "zz" + parts[0][2:] + ":" + parts[1] + ":" + parts[2],
		"short nonce":    parts[0][:8] + ":" + parts[1] + ":" + parts[2],
		"short tag":      parts[0] + ":" + parts[1][:8] + ":" + parts[2],
		"non hex body":   parts[0] + ":" + parts[1] + ":xyz",
		"tampered tag":   parts[0] + ":" + flipFirst(parts[1]) + ":" + parts[2],
		"tampered body":  parts[0] + ":" + parts[1] + ":" + flipFirst(parts[2]),
		"compact short":  "00112233445566778899aabb:00",
		"compact forged": "00112233445566778899aabb:00112233445566778899aabbccddeeff",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestDecryptRejectsOtherKey(t *testing.T) {
	token, err := newCipher(t, "one").Encrypt("id")
	require.NoError(t, err)
	_, err = newCipher(t, "two").Decrypt(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecryptCompactForm(t *testing.T) {
	key := sha256.Sum256([]byte("campaign-secret"))
	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)
	nonce := []byte("0123456789ab")
	token := fmt.Sprintf("%x:%x", nonce, aead.Seal(nil, nonce, []byte("admin"), nil))

	got, err := newCipher(t, "campaign-secret").Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", got)
}

func flipFirst(h string) string {
	if h[0] == '0' {
		return "1" + h[1:]
	}
	return "0" + h[1:]
}
