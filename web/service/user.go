package service

import (
	"errors"

	"dtportal/database"
	"dtportal/database/model"
	"dtportal/logger"
	"dtportal/util/crypto"

	"github.com/xlzd/gotp"
	"gorm.io/gorm"
)

// SeedResult reports what the admin seeding upsert did.
type SeedResult string

const (
	SeedCreated SeedResult = "created"
	SeedUpdated SeedResult = "updated"
)

type UserService struct {
	settingService SettingService
}

// CheckUser validates credentials and returns the user on success, nil
// otherwise. Only active accounts may authenticate; when two-factor is
// enabled the TOTP code must also match.
func (s *UserService) CheckUser(username string, password string, twoFactorCode string) *model.User {
	db := database.GetDB()

	user := &model.User{}

	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if user.Status != model.StatusActive {
		logger.Warningf("login refused for %s: status %s", user.Username, user.Status)
		return nil
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil
	}

	if user.IsAdmin() {
		twoFactorEnable, err := s.settingService.GetTwoFactorEnable()
		if err != nil {
			logger.Warning("check two factor err:", err)
			return nil
		}

		if twoFactorEnable {
			twoFactorToken, err := s.settingService.GetTwoFactorToken()
			if err != nil {
				logger.Warning("check two factor token err:", err)
				return nil
			}

			if gotp.NewDefaultTOTP(twoFactorToken).Now() != twoFactorCode {
				return nil
			}
		}
	}

	return user
}

// SeedAdmin ensures an administrator account exists with the given
// credentials. An existing row matched by username or email gets its hash
// reset and its role forced back to admin/active; otherwise a new row is
// inserted. Idempotent.
func (s *UserService) SeedAdmin(username, email, password string) (SeedResult, error) {
	if username == "" || email == "" || password == "" {
		return "", errors.New("username, email and password can not be empty")
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return "", err
	}

	db := database.GetDB()
	user := &model.User{}
	err = db.Model(model.User{}).
		Where("username = ? OR email = ?", username, email).
		First(user).
		Error
	if database.IsNotFound(err) {
		user = &model.User{
			Username: username,
			Email:    email,
			Password: hashedPassword,
			FullName: "Administrator",
			UserType: model.RoleAdmin,
			Status:   model.StatusActive,
		}
		if err := db.Create(user).Error; err != nil {
			return "", err
		}
		return SeedCreated, nil
	} else if err != nil {
		return "", err
	}

	user.Password = hashedPassword
	user.UserType = model.RoleAdmin
	user.Status = model.StatusActive
	if err := db.Save(user).Error; err != nil {
		return "", err
	}
	return SeedUpdated, nil
}

// RegisterStudent creates a new active student account.
func (s *UserService) RegisterStudent(username, email, fullName, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password can not be empty")
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
		UserType: model.RoleStudent,
		Status:   model.StatusActive,
	}
	db := database.GetDB()
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).Where("id = ?", id).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	db := database.GetDB()
	users := make([]*model.User, 0)
	err := db.Model(model.User{}).Order("created_at desc").Find(&users).Error
	return users, err
}

// UpdateProfile changes the profile fields a student may edit about
// themselves. An empty password leaves the credential untouched.
func (s *UserService) UpdateProfile(id int, email, fullName, password string) error {
	updates := map[string]any{
		"email":     email,
		"full_name": fullName,
	}
	if password != "" {
		hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
		if err != nil {
			return err
		}
		updates["password"] = hashedPassword
	}
	db := database.GetDB()
	return db.Model(model.User{}).Where("id = ?", id).Updates(updates).Error
}

func (s *UserService) SetPhotoPath(id int, photoPath string) error {
	db := database.GetDB()
	return db.Model(model.User{}).Where("id = ?", id).Update("photo_path", photoPath).Error
}

// SetUserStatus flips an account between active and inactive.
func (s *UserService) SetUserStatus(id int, status string) error {
	if status != model.StatusActive && status != model.StatusInactive {
		return errors.New("unknown status: " + status)
	}
	db := database.GetDB()
	return db.Model(model.User{}).Where("id = ?", id).Update("status", status).Error
}

func (s *UserService) CountStudents() (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.User{}).Where("user_type = ?", model.RoleStudent).Count(&count).Error
	return count, err
}
