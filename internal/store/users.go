package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kunmmi/whisper/internal/models"
)

func (s *Store) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *Store) FindUserByID(id uint) (*models.User, error) {
	var u models.User
	err := s.db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByIdentifier looks a user up by email or username, for login.
func (s *Store) FindUserByIdentifier(identifier string) (*models.User, error) {
	var u models.User
	err := s.db.Where("email = ? OR username = ?", identifier, identifier).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UsernameExists(username string) (bool, error) {
	var n int64
	err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (s *Store) EmailExists(email string) (bool, error) {
	var n int64
	err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

// SearchUsers matches usernames by substring, excluding the caller.
func (s *Store) SearchUsers(query string, excludeUserID uint, limit int) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Where("username LIKE ? AND id <> ?", "%"+query+"%", excludeUserID).
		Order("username").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *Store) UpdateProfilePicture(userID uint, url *string) (*models.User, error) {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("profile_picture_url", url)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.FindUserByID(userID)
}
