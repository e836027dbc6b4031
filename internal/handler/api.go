package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
	"gorm.io/gorm"
)

// Options 汇总 handler 层需要的运行参数。
type Options struct {
	UploadDir      string
	UploadURLPath  string
	UploadMaxBytes int64
	SessionMaxAge  time.Duration
	SecureCookies  bool
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db            *gorm.DB
	auth          *service.AuthService
	users         *service.UserService
	posts         *service.PostService
	comments      *service.CommentService
	uploads       *service.UploadService
	sessionMaxAge time.Duration
	secureCookies bool
	now           func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	return &API{
		db:            db,
		auth:          service.NewAuthService(db),
		users:         service.NewUserService(db),
		posts:         service.NewPostService(db),
		comments:      service.NewCommentService(db),
		uploads:       service.NewUploadService(opts.UploadDir, opts.UploadURLPath, opts.UploadMaxBytes),
		sessionMaxAge: opts.SessionMaxAge,
		secureCookies: opts.SecureCookies,
		now:           time.Now,
	}
}

func messageResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
