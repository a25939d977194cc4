package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_AllerRetour(t *testing.T) {
	hash, err := HashPassword("S3cret!pass")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("S3cret!pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_MauvaisMotDePasse(t *testing.T) {
	hash, err := HashPassword("S3cret!pass")
	require.NoError(t, err)

	ok, err := VerifyPassword("autre-mot-de-passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SelAleatoire(t *testing.T) {
	h1, err := HashPassword("S3cret!pass")
	require.NoError(t, err)
	h2, err := HashPassword("S3cret!pass")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_CompatibiliteBcrypt(t *testing.T) {
	// comptes migrés de l'ancien backend
	bhash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, IsBcryptHash(string(bhash)))

	ok, err := VerifyPassword("legacy-pass", string(bhash))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", string(bhash))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_HashInvalide(t *testing.T) {
	_, err := VerifyPassword("x", "pas-un-hash")
	assert.Error(t, err)
}

func TestIsArgon2HashIsBcryptHash(t *testing.T) {
	assert.True(t, IsArgon2Hash("$argon2id$v=19$m=32768,t=1,p=4$abc$def"))
	assert.False(t, IsArgon2Hash("$2b$10$abcdef"))

	assert.True(t, IsBcryptHash("$2a$10$abcdef"))
	assert.True(t, IsBcryptHash("$2b$10$abcdef"))
	assert.False(t, IsBcryptHash("$argon2id$v=19$m=32768,t=1,p=4$abc$def"))
}
