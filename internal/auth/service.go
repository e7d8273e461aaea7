package auth

import (
	"errors"
	"fmt"
	"strings"

	"ward-calendar-api/internal/util"

	"gorm.io/gorm"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUsernameTaken      = errors.New("A user with that username already exists.")
	ErrInvalidCredentials = errors.New("Unable to log in with provided credentials.")
)

type AuthService struct {
	DB *gorm.DB
}

func (s *AuthService) CreateAdmin(username, password string) (*Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username may not be blank")
	}

	hashed, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := Admin{Username: username, Password: hashed}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return &admin, nil
}

func (s *AuthService) GetAdmin(username string) (*Admin, error) {
	var admin Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AuthService) GetAdminByID(id int) (*Admin, error) {
	var admin Admin
	if err := s.DB.Where("id = ?", id).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AuthService) GetAllAdmins() ([]Admin, error) {
	var admins []Admin
	if err := s.DB.Order("id ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// DeleteAdmin removes the account and unlinks it from any ward it
// administers. The ward itself is kept.
func (s *AuthService) DeleteAdmin(id int) (*Admin, error) {
	var admin Admin

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminNotFound
			}
			return err
		}

		if err := tx.Table("wards").
			Where("ward_admin_id = ?", id).
			Update("ward_admin_id", nil).Error; err != nil {
			return fmt.Errorf("unlink ward admin: %w", err)
		}

		return tx.Delete(&Admin{}, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &admin, nil
}

func (s *AuthService) Authenticate(username, password string) (*Admin, error) {
	admin, err := s.GetAdmin(username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := util.VerifyPassword(password, admin.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint")
}
