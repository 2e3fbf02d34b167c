package credentials

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/logger"
	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/models"
)

// Store is the username/password table.
type Store struct {
	db     *gorm.DB
	hasher PasswordHasher
	lggr   *logger.Logger
}

func NewStore(db *gorm.DB, hasher PasswordHasher, lggr *logger.Logger) *Store {
	return &Store{db: db, hasher: hasher, lggr: lggr.Named("credentials")}
}

// AddUser inserts a new user. It returns false, and no error, when the
// username is already taken.
func (s *Store) AddUser(ctx context.Context, username, password string) (bool, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	user := models.User{Username: username, Password: hashed}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	s.lggr.Infow("user added", "user_id", user.ID, "username", username)
	return true, nil
}

// LoginUser returns the user when both the username and the password match,
// and nil otherwise.
func (s *Store) LoginUser(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.verify(user.Password, password) {
		return nil, nil
	}

	if s.hasher.Name() != HashSHA256 && isLegacyHash(user.Password) {
		s.upgrade(ctx, &user, password)
	}
	return &user, nil
}

// UserExists reports whether a user with the given id is still in the table.
func (s *Store) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// verify picks the hasher from the shape of the stored value, so rows keep
// working after auth.password_hash is changed.
func (s *Store) verify(hash, password string) bool {
	switch {
	case isLegacyHash(hash):
		return SHA256Hasher{}.Verify(hash, password)
	case isBcryptHash(hash):
		return NewBcryptHasher(bcrypt.DefaultCost).Verify(hash, password)
	default:
		return s.hasher.Verify(hash, password)
	}
}

// upgrade rehashes a legacy row with the configured hasher. Failure leaves
// the legacy hash in place; the login itself still succeeds.
func (s *Store) upgrade(ctx context.Context, user *models.User, password string) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.lggr.Warnw("failed to rehash legacy password", "user_id", user.ID, "err", err)
		return
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		s.lggr.Warnw("failed to store rehashed password", "user_id", user.ID, "err", err)
		return
	}
	s.lggr.Infow("upgraded legacy password hash", "user_id", user.ID, "hasher", s.hasher.Name())
}
