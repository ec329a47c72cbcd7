package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "financebot/internal/errors"
	"financebot/internal/models"
)

// placeholderSecret is hashed into every phone-created account. Login never
// checks it.
const placeholderSecret = "123456"

// userService handles phone-based identity.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// IsAuthorized reports whether the phone number may log in.
func (s *userService) IsAuthorized(phone string) (bool, error) {
	number := models.NormalizePhone(phone)
	if number == "" {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "phone is required")
	}

	var count int64
	if err := s.db.Model(&models.AuthorizedNumber{}).Where("number = ?", number).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// Login returns the user owning an authorized phone number, creating the
// account on first login.
func (s *userService) Login(phone string) (*models.User, error) {
	authorized, err := s.IsAuthorized(phone)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, apperrors.ErrPhoneNotAuthorized
	}

	number := models.NormalizePhone(phone)
	var user models.User
	err = s.db.Where("phone = ?", number).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(placeholderSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	suffix := models.PhoneSuffix(number)
	user = models.User{
		Phone:        number,
		Name:         fmt.Sprintf("Usuário %s", suffix),
		Email:        fmt.Sprintf("user%s@financebot.com", suffix),
		PasswordHash: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateProfile changes the user's name and email. Empty values are left
// unchanged.
func (s *userService) UpdateProfile(id uint, name, email string) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name = strings.TrimSpace(name); name != "" {
		updates["name"] = name
	}
	if email = strings.TrimSpace(email); email != "" {
		updates["email"] = strings.ToLower(email)
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetUserByID(id)
}

// AuthorizeNumber allows a phone number to log in. Authorizing a number twice
// returns the existing row.
func (s *userService) AuthorizeNumber(phone string) (*models.AuthorizedNumber, error) {
	number := models.NormalizePhone(phone)
	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "phone is required")
	}

	var authorized models.AuthorizedNumber
	if err := s.db.Where(models.AuthorizedNumber{Number: number}).FirstOrCreate(&authorized).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &authorized, nil
}
