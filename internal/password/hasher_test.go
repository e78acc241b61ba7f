package password

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := h.Hash("Correct!horse")
	require.NoError(t, err)
	assert.NotEqual(t, "Correct!horse", digest)
	assert.True(t, h.owns(digest))

	ok, err := h.Verify("Correct!horse", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("Wrong!horse", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcrypt_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	a, err := h.Hash("Same!password")
	require.NoError(t, err)
	b, err := h.Hash("Same!password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcrypt_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewBcrypt(bcrypt.MaxCost + 1)
	require.Error(t, err)

	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Verify("anything", "short")
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "PASSWORD_INVALID_HASH", oopsErr.Code())
}

func TestBcrypt_NeedsUpgrade(t *testing.T) {
	t.Parallel()

	low, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)
	higher, err := NewBcrypt(bcrypt.MinCost + 1)
	require.NoError(t, err)

	digest, err := low.Hash("Upgrade!me")
	require.NoError(t, err)

	assert.False(t, low.NeedsUpgrade(digest))
	assert.True(t, higher.NeedsUpgrade(digest))
	assert.True(t, low.NeedsUpgrade("garbage"))
}

func TestNewBcrypt_DefaultCost(t *testing.T) {
	h, err := NewBcrypt(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, h.cost)
}

func TestArgon2id_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewArgon2id()

	digest, err := h.Hash("Correct!horse")
	require.NoError(t, err)
	assert.Contains(t, digest, "$argon2id$v=19$m=65536,t=1,p=4$")

	ok, err := h.Verify("Correct!horse", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("Wrong!horse", digest)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, h.NeedsUpgrade(digest))
}

func TestArgon2id_MalformedDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		digest string
	}{
		{name: "too few parts", digest: "$argon2id$v=19$abc"},
		{name: "wrong algorithm", digest: "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5"},
		{name: "bad version", digest: "$argon2id$v=1$m=65536,t=1,p=4$c2FsdA$a2V5"},
		{name: "bad params", digest: "$argon2id$v=19$m=x,t=1,p=4$c2FsdA$a2V5"},
		{name: "zero threads", digest: "$argon2id$v=19$m=65536,t=1,p=0$c2FsdA$a2V5"},
		{name: "bad salt", digest: "$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5"},
		{name: "empty key", digest: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$"},
	}

	h := NewArgon2id()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := h.Verify("pw", tt.digest)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, h.NeedsUpgrade(tt.digest))
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	bcryptChain, err := New("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)
	argonChain, err := New("argon2id", bcrypt.MinCost)
	require.NoError(t, err)

	legacy, err := bcryptChain.Hash("Legacy!pass")
	require.NoError(t, err)

	ok, err := argonChain.Verify("Legacy!pass", legacy)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, argonChain.NeedsUpgrade(legacy))
	assert.False(t, bcryptChain.NeedsUpgrade(legacy))

	modern, err := argonChain.Hash("Modern!pass")
	require.NoError(t, err)
	ok, err = bcryptChain.Verify("Modern!pass", modern)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = bcryptChain.Verify("x", "plaintext")
	require.Error(t, err)

	_, err = New("md5", 0)
	require.Error(t, err)
}
