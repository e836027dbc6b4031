package service

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/quillpress/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already taken")
)

const (
	minUsernameLength = 7
	maxUsernameLength = 20
	minPasswordLength = 6
	// bcrypt 只处理前 72 字节，超出直接报错
	maxPasswordBytes = 72
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// UserService wraps user related database operations.
type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

// UserPatch 描述更新用户资料时可修改的字段，nil 表示保持不变。
type UserPatch struct {
	Username       *string
	Email          *string
	Password       *string
	ProfilePicture *string
}

// UserFilter describes the admin listing window.
type UserFilter struct {
	Window
	Sort string
}

// UserListResult 汇总后台用户列表及统计数据。
type UserListResult struct {
	Users     []db.User
	Total     int64
	LastMonth int64
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb, now: time.Now}
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update to the user profile.
func (s *UserService) Update(id uint, patch UserPatch) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}

	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		updates["email"] = email
	}

	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}

	if patch.ProfilePicture != nil {
		picture := strings.TrimSpace(*patch.ProfilePicture)
		if picture == "" {
			picture = db.DefaultProfilePicture
		}
		updates["profile_picture"] = picture
	}

	if len(updates) == 0 {
		return user, nil
	}

	username, _ := updates["username"].(string)
	email, _ := updates["email"].(string)
	if err := s.ensureAvailable(username, email, id); err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes a user. Posts and comments authored by the user are kept.
func (s *UserService) Delete(id uint) error {
	result := s.db.Delete(&db.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns a window of users together with overall counters.
func (s *UserService) List(filter UserFilter) (*UserListResult, error) {
	window := filter.Window.normalize(defaultListLimit)
	result := &UserListResult{}

	if err := s.db.Order("created_at " + sortDirection(filter.Sort)).
		Order("id " + sortDirection(filter.Sort)).
		Offset(window.StartIndex).
		Limit(window.Limit).
		Find(&result.Users).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.User{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.User{}).
		Where("created_at >= ?", oneMonthAgo(s.now())).
		Count(&result.LastMonth).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// ensureAvailable 检查用户名和邮箱是否已被其他账号占用，excludeID 为 0 时不排除任何账号。
func (s *UserService) ensureAvailable(username, email string, excludeID uint) error {
	return ensureIdentityAvailable(s.db, username, email, excludeID)
}

func ensureIdentityAvailable(gdb *gorm.DB, username, email string, excludeID uint) error {
	if username == "" && email == "" {
		return nil
	}

	query := gdb.Model(&db.User{})
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", username, email)
	case username != "":
		query = query.Where("username = ?", username)
	default:
		query = query.Where("email = ?", email)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return invalidf("username is required")
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return invalidf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if strings.ContainsAny(username, " \t\n") {
		return invalidf("username cannot contain spaces")
	}
	if username != strings.ToLower(username) {
		return invalidf("username must be lowercase")
	}
	if !usernamePattern.MatchString(username) {
		return invalidf("username can only contain letters and numbers")
	}
	return nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return invalidf("password is required")
	}
	if len(password) < minPasswordLength {
		return invalidf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return invalidf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", invalidf("email is required")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", invalidf("email is invalid")
	}
	return trimmed, nil
}
