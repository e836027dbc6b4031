package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/quillpress/internal/config"
	"github.com/quillpress/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎、中间件和全部 API 路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), handler.Recovery())
	r.Use(fromHTTPMiddleware(middleware.RequestID))
	r.Use(fromHTTPMiddleware(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(handler.SessionCookieName, store))
	r.Use(handler.ErrorResponder())

	api := handler.NewAPI(gdb, handler.Options{
		UploadDir:      cfg.UploadDir,
		UploadURLPath:  cfg.UploadURLPath,
		UploadMaxBytes: cfg.UploadMaxBytes,
		SessionMaxAge:  time.Duration(cfg.SessionMaxAge) * time.Second,
		SecureCookies:  cfg.SecureCookies,
	})

	// 上传文件与分享页
	if cfg.UploadDir != "" && cfg.UploadURLPath != "/" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}
	r.GET("/p/:slug", api.SharePost)

	root := r.Group("/api")
	root.Use(api.LoadSession())
	{
		root.GET("/health", api.HealthCheck)

		authRoutes := root.Group("/auth")
		if cfg.AuthRateLimit > 0 {
			authRoutes.Use(fromHTTPMiddleware(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute)))
		}
		{
			authRoutes.POST("/sign-up", api.SignUp)
			authRoutes.POST("/sign-in", api.SignIn)
			if cfg.GoogleSignInEnabled {
				authRoutes.POST("/google", api.GoogleSignIn)
			}
		}

		users := root.Group("/user")
		{
			users.POST("/signout", api.SignOut)
			users.GET("/profile/:userId", api.GetUser)
			users.PUT("/update/:userId", handler.RequireSelf("userId"), api.UpdateUser)
			users.DELETE("/delete/:userId", handler.RequireOwner("userId", api.UserOwner), api.DeleteUser)
			users.GET("/get-users", handler.RequireAdmin(), api.ListUsers)
		}

		posts := root.Group("/post")
		{
			posts.GET("/get-posts", api.ListPosts)
			posts.GET("/slug/:slug", api.GetPostBySlug)
			posts.POST("/create", handler.RequireAdmin(), api.CreatePost)
			posts.PUT("/update/:postId", handler.RequireOwner("postId", api.PostOwner), api.UpdatePost)
			posts.DELETE("/delete/:postId", handler.RequireOwner("postId", api.PostOwner), api.DeletePost)
			posts.PUT("/like-post/:postId", handler.RequireSession(), api.LikePost)
		}

		comments := root.Group("/comment")
		{
			comments.POST("/add-comment", handler.RequireSession(), api.AddComment)
			comments.GET("/get-post-comments/:postId", api.ListPostComments)
			comments.PUT("/like-comment/:commentId", handler.RequireSession(), api.LikeComment)
			comments.PUT("/edit-comment/:commentId", handler.RequireOwner("commentId", api.CommentOwner), api.EditComment)
			comments.DELETE("/delete-comment/:commentId", handler.RequireOwner("commentId", api.CommentOwner), api.DeleteComment)
			comments.PUT("/hide-comment/:commentId", handler.RequireAdmin(), api.HideComment)
			comments.GET("/get-comments", handler.RequireAdmin(), api.ListComments)
		}

		root.POST("/upload/image", handler.RequireSession(), api.UploadImage)
	}

	return r
}

// fromHTTPMiddleware 让 net/http 风格的中间件（chi 生态）运行在 gin 链路中。
// 中间件未调用 next 时（如 CORS 预检、限流）终止后续处理。
func fromHTTPMiddleware(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			called = true
			c.Request = req
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}
