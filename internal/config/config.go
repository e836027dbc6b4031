package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr          string
	Port                string
	DatabasePath        string
	SessionSecret       string
	SessionMaxAge       int
	SecureCookies       bool
	GinMode             string
	UploadDir           string
	UploadURLPath       string
	UploadMaxBytes      int64
	CORSAllowedOrigins  []string
	AuthRateLimit       int
	GoogleSignInEnabled bool
	AdminUserName       string
	AdminEmail          string
	AdminPassword       string
}

const defaultSessionSecret = "quillpress-dev-secret"

// Load 从环境变量（以及可选的 CONFIG_FILE）读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("DATABASE_PATH", "quillpress.db")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("SESSION_MAX_AGE", 7*24*60*60)
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("UPLOAD_DIR", "data/uploads")
	v.SetDefault("UPLOAD_URL_PATH", "/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("GOOGLE_SIGN_IN_ENABLED", false)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	port := strings.TrimSpace(v.GetString("PORT"))
	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	sessionSecret := strings.TrimSpace(v.GetString("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = defaultSessionSecret
	}

	sessionMaxAge := v.GetInt("SESSION_MAX_AGE")
	if sessionMaxAge <= 0 {
		return AppConfig{}, fmt.Errorf("SESSION_MAX_AGE must be positive, got %d", sessionMaxAge)
	}

	uploadURLPath := "/" + strings.Trim(strings.TrimSpace(v.GetString("UPLOAD_URL_PATH")), "/")

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabasePath:        strings.TrimSpace(v.GetString("DATABASE_PATH")),
		SessionSecret:       sessionSecret,
		SessionMaxAge:       sessionMaxAge,
		SecureCookies:       v.GetBool("SECURE_COOKIES"),
		GinMode:             strings.TrimSpace(v.GetString("GIN_MODE")),
		UploadDir:           strings.TrimSpace(v.GetString("UPLOAD_DIR")),
		UploadURLPath:       uploadURLPath,
		UploadMaxBytes:      v.GetInt64("UPLOAD_MAX_BYTES"),
		CORSAllowedOrigins:  splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthRateLimit:       v.GetInt("AUTH_RATE_LIMIT"),
		GoogleSignInEnabled: v.GetBool("GOOGLE_SIGN_IN_ENABLED"),
		AdminUserName:       strings.TrimSpace(v.GetString("ADMIN_USERNAME")),
		AdminEmail:          strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
		AdminPassword:       strings.TrimSpace(v.GetString("ADMIN_PASSWORD")),
	}, nil
}

// UsesDefaultSecret 指示当前是否仍在使用开发用的会话密钥。
func (c AppConfig) UsesDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

func splitCSV(value string) []string {
	raw := strings.Split(value, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
