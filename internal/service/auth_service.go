package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/quillpress/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 在登录失败时返回，不区分用户不存在与密码错误。
var ErrInvalidCredentials = errors.New("invalid credentials")

const generatedUsernameAttempts = 5

// AuthService handles sign-up and sign-in.
type AuthService struct {
	db *gorm.DB
}

// SignUpInput represents the fields accepted at registration.
type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// GoogleSignInInput 是第三方登录回传的身份信息。
type GoogleSignInInput struct {
	Email    string
	Name     string
	PhotoURL string
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// SignUp validates the input and stores a new non-admin user with a hashed password.
func (s *AuthService) SignUp(input SignUpInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if err := ensureIdentityAvailable(s.db, username, email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

// SignIn verifies credentials. identifier may be an email address or a username.
func (s *AuthService) SignIn(identifier, password string) (*db.User, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	err := s.db.Where("email = ? OR username = ?", strings.ToLower(trimmed), trimmed).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GoogleSignIn returns the user registered with the email, creating one on first sign-in.
func (s *AuthService) GoogleSignIn(input GoogleSignInInput) (*db.User, bool, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, false, err
	}

	var existing db.User
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	base := usernameBase(input.Name, email)
	for attempt := 0; attempt < generatedUsernameAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%04d", base, rand.Intn(10000))
		if err := ensureIdentityAvailable(s.db, candidate, "", 0); err != nil {
			if errors.Is(err, ErrUserExists) {
				continue
			}
			return nil, false, err
		}

		user := db.User{
			Username:       candidate,
			Email:          email,
			Password:       string(hashed),
			ProfilePicture: strings.TrimSpace(input.PhotoURL),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, false, err
		}
		return &user, true, nil
	}

	return nil, false, fmt.Errorf("generate username for %s: %w", email, ErrUserExists)
}

// usernameBase 将显示名转为小写字母数字串，长度保证加上 4 位后缀后满足用户名规则。
func usernameBase(name, email string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = strings.Split(email, "@")[0]
		base = strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return unicode.ToLower(r)
			}
			return -1
		}, base)
	}
	for len(base) < minUsernameLength-4 {
		base += "user"
	}
	if len(base) > maxUsernameLength-4 {
		base = base[:maxUsernameLength-4]
	}
	return base
}
