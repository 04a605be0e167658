package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelapp/jewel-client/internal/domain"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("secret")
	require.NoError(t, err)
	hash2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not a hash", "secret"))
	assert.False(t, VerifyPassword("$argon2id$garbage", "secret"))
	assert.False(t, VerifyPassword("", "secret"))
}

func setupTestTokens(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()

	keyHex, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := NewTokenService(keyHex, duration)
	require.NoError(t, err)
	return svc
}

func TestTokens_IssueVerifyRoundtrip(t *testing.T) {
	svc := setupTestTokens(t, time.Hour)
	user := &domain.User{ID: "u-1", Username: "alice", Role: domain.RoleCustomer}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "CUSTOMER", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokens_WrongKeyRejected(t *testing.T) {
	issuer := setupTestTokens(t, time.Hour)
	verifier := setupTestTokens(t, time.Hour)

	token, err := issuer.GenerateAccessToken(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokens_ExpiredRejected(t *testing.T) {
	svc := setupTestTokens(t, -time.Minute)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokens_GarbageRejected(t *testing.T) {
	svc := setupTestTokens(t, time.Hour)

	_, err := svc.VerifyAccessToken("v4.local.not-a-real-token")
	assert.Error(t, err)
}

func TestNewTokenService_KeyValidation(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("z", 64), time.Hour)
	assert.Error(t, err, "non-hex key rejected")
}

func TestLoadOrGenerateKey_Persistent(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 64)

	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2, "second load returns the saved key")
}

func TestLoadOrGenerateKey_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("too short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
