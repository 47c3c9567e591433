package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestCredentialSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-42"})

	sub, err := Credential{AccessToken: token}.Subject()
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)

	_, err = Credential{AccessToken: signedToken(t, jwt.MapClaims{"email": "a@b.c"})}.Subject()
	assert.Error(t, err)

	_, err = Credential{AccessToken: "not-a-jwt"}.Subject()
	assert.Error(t, err)
}

func TestExpiryFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "u", "exp": exp.Unix()})

	assert.True(t, exp.Equal(ExpiryFromToken(token)))
	assert.True(t, ExpiryFromToken(signedToken(t, jwt.MapClaims{"sub": "u"})).IsZero())
	assert.True(t, ExpiryFromToken("garbage").IsZero())
}

func TestCredentialExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, Credential{AccessToken: "t"}.Expired(now))
	assert.False(t, Credential{AccessToken: "t", ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Credential{AccessToken: "t", ExpiresAt: now}.Expired(now))
	assert.True(t, Credential{AccessToken: "t", ExpiresAt: now.Add(-time.Minute)}.Expired(now))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Set(Credential{AccessToken: "abc"}))
	cred, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "abc", cred.AccessToken)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWith(Credential{AccessToken: "abc", ExpiresAt: now.Add(time.Minute)})
	store.now = func() time.Time { return now }

	_, ok := store.Get()
	assert.True(t, ok)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok = store.Get()
	assert.False(t, ok)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok := store.Get()
	assert.False(t, ok)

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, store.Set(Credential{AccessToken: "abc", ExpiresAt: expires}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	cred, ok := reopened.Get()
	require.True(t, ok)
	assert.Equal(t, "abc", cred.AccessToken)
	assert.True(t, expires.Equal(cred.ExpiresAt))
	assert.Equal(t, path, reopened.FilePath())

	require.NoError(t, reopened.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	require.NoError(t, reopened.Clear())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}
