package credentials

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/config"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/db"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "users.db")}
	database, err := db.NewDB(context.Background(), cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	return database
}

func newTestStore(t *testing.T, hasher PasswordHasher) (*Store, *gorm.DB) {
	t.Helper()
	database := newTestDB(t)
	return NewStore(database, hasher, zap.NewNop().Sugar()), database
}

func TestStore_AddUser(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	ok, err := s.AddUser(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AddUser(ctx, "alice", "other")
	require.NoError(t, err)
	assert.False(t, ok, "second signup with the same name must be rejected")

	ok, err = s.AddUser(ctx, "Alice", "pw1")
	require.NoError(t, err)
	assert.True(t, ok, "usernames are case sensitive")
}

func TestStore_LoginUser(t *testing.T) {
	t.Parallel()

	for _, hasher := range []PasswordHasher{NewBcryptHasher(bcrypt.MinCost), SHA256Hasher{}} {
		hasher := hasher
		t.Run(hasher.Name(), func(t *testing.T) {
			t.Parallel()

			s, _ := newTestStore(t, hasher)
			ctx := context.Background()

			ok, err := s.AddUser(ctx, "alice", "s3cret")
			require.NoError(t, err)
			require.True(t, ok)

			tests := []struct {
				name     string
				username string
				password string
				wantUser bool
			}{
				{name: "exact match", username: "alice", password: "s3cret", wantUser: true},
				{name: "wrong password", username: "alice", password: "s3cret ", wantUser: false},
				{name: "wrong case username", username: "ALICE", password: "s3cret", wantUser: false},
				{name: "unknown user", username: "bob", password: "s3cret", wantUser: false},
				{name: "empty password", username: "alice", password: "", wantUser: false},
			}

			for _, tt := range tests {
				user, err := s.LoginUser(ctx, tt.username, tt.password)
				require.NoError(t, err, tt.name)
				if !tt.wantUser {
					assert.Nil(t, user, tt.name)
					continue
				}
				require.NotNil(t, user, tt.name)
				assert.Equal(t, "alice", user.Username)
				assert.NotEqual(t, "s3cret", user.Password, "password must be stored hashed")
			}
		})
	}
}

func TestStore_SHA256HashFormat(t *testing.T) {
	t.Parallel()

	s, database := newTestStore(t, SHA256Hasher{})
	ok, err := s.AddUser(context.Background(), "alice", "password")
	require.NoError(t, err)
	require.True(t, ok)

	var user models.User
	require.NoError(t, database.Where("username = ?", "alice").First(&user).Error)
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", user.Password)
}

func TestStore_UpgradesLegacyHash(t *testing.T) {
	t.Parallel()

	s, database := newTestStore(t, NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	legacy, err := SHA256Hasher{}.Hash("password")
	require.NoError(t, err)
	require.NoError(t, database.Create(&models.User{Username: "old", Password: legacy}).Error)

	user, err := s.LoginUser(ctx, "old", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.LoginUser(ctx, "old", "password")
	require.NoError(t, err)
	require.NotNil(t, user)

	var stored models.User
	require.NoError(t, database.Where("username = ?", "old").First(&stored).Error)
	assert.False(t, isLegacyHash(stored.Password))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password")))

	user, err = s.LoginUser(ctx, "old", "password")
	require.NoError(t, err)
	assert.NotNil(t, user, "login keeps working after the upgrade")
}

func TestStore_LongPasswords(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	long := strings.Repeat("x", 80)
	ok, err := s.AddUser(ctx, "alice", long)
	require.NoError(t, err)
	require.True(t, ok)

	user, err := s.LoginUser(ctx, "alice", long)
	require.NoError(t, err)
	assert.NotNil(t, user)

	// bytes past the 72nd still count
	user, err = s.LoginUser(ctx, "alice", strings.Repeat("x", 79)+"y")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.LoginUser(ctx, "alice", strings.Repeat("x", 72))
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStore_VerifiesBcryptRowsAfterHasherChange(t *testing.T) {
	t.Parallel()

	database := newTestDB(t)
	lggr := zap.NewNop().Sugar()
	ctx := context.Background()

	ok, err := NewStore(database, NewBcryptHasher(bcrypt.MinCost), lggr).AddUser(ctx, "alice", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	s := NewStore(database, SHA256Hasher{}, lggr)
	user, err := s.LoginUser(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.NotNil(t, user)

	user, err = s.LoginUser(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStore_UserExists(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, SHA256Hasher{})
	ctx := context.Background()

	_, err := s.AddUser(ctx, "alice", "pw")
	require.NoError(t, err)
	user, err := s.LoginUser(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)

	exists, err := s.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.UserExists(ctx, user.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewHasher(t *testing.T) {
	t.Parallel()

	h, err := NewHasher("")
	require.NoError(t, err)
	assert.Equal(t, HashBcrypt, h.Name())

	h, err = NewHasher(HashSHA256)
	require.NoError(t, err)
	assert.Equal(t, HashSHA256, h.Name())

	_, err = NewHasher("md5")
	require.Error(t, err)
}

func TestIsLegacyHash(t *testing.T) {
	t.Parallel()

	sum, _ := SHA256Hasher{}.Hash("x")
	assert.True(t, isLegacyHash(sum))

	bc, err := NewBcryptHasher(bcrypt.MinCost).Hash("x")
	require.NoError(t, err)
	assert.False(t, isLegacyHash(bc))
	assert.False(t, isLegacyHash("abc"))

	assert.True(t, isBcryptHash(bc))
	assert.False(t, isBcryptHash(sum))
}
