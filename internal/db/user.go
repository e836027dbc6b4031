package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultProfilePicture 是未上传头像时使用的默认图片。
const DefaultProfilePicture = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_1280.png"

// User 定义了用户模型
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"not null"`
	ProfilePicture string `gorm:"not null"`
	IsAdmin        bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BeforeCreate 为缺省头像填充默认值。
func (u *User) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(u.ProfilePicture) == "" {
		u.ProfilePicture = DefaultProfilePicture
	}
	return nil
}

// EnsureAdmin 存在性检查：若三项均非空且用户名不存在，则创建一个 bcrypt 哈希的管理员；
// 若用户已存在则仅确保其管理员标记。
func EnsureAdmin(gdb *gorm.DB, username, email, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return gdb.Create(&User{
			Username: trimmedUser,
			Email:    trimmedEmail,
			Password: string(hashed),
			IsAdmin:  true,
		}).Error
	}

	if existing.IsAdmin {
		return nil
	}
	return gdb.Model(&existing).Update("is_admin", true).Error
}

// SetAdmin 修改指定用户名的管理员标记，返回是否找到该用户。
func SetAdmin(gdb *gorm.DB, username string, admin bool) (bool, error) {
	result := gdb.Model(&User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Update("is_admin", admin)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
