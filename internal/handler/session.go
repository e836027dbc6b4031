package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/db"
	"github.com/quillpress/internal/service"
)

const (
	// SessionCookieName 是会话 cookie 的名称。
	SessionCookieName = "quillpress_session"

	sessionUserIDKey   = "user_id"
	sessionIssuedAtKey = "issued_at"
	currentUserKey     = "__current_user"
)

// LoadSession resolves the session cookie into the current user. Missing,
// expired or tampered cookies leave the request anonymous.
func (a *API) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get(sessionUserIDKey)
		if rawID == nil {
			c.Next()
			return
		}

		userID, ok := rawID.(uint)
		issuedAt, _ := session.Get(sessionIssuedAtKey).(int64)
		if !ok || userID == 0 || a.sessionExpired(issuedAt) {
			a.clearSession(session)
			c.Next()
			return
		}

		user, err := a.users.Get(userID)
		if err != nil {
			if !errors.Is(err, service.ErrUserNotFound) {
				fail(c, err)
				return
			}
			// 用户已被删除
			a.clearSession(session)
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func (a *API) sessionExpired(issuedAt int64) bool {
	if issuedAt <= 0 {
		return true
	}
	if a.sessionMaxAge <= 0 {
		return false
	}
	return a.now().After(time.Unix(issuedAt, 0).Add(a.sessionMaxAge))
}

func (a *API) startSession(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionIssuedAtKey, a.now().Unix())
	// 同一请求里 LoadSession 可能已把 MaxAge 置为 -1，这里重新设置
	session.Options(a.cookieOptions(int(a.sessionMaxAge / time.Second)))
	return session.Save()
}

func (a *API) clearSession(session sessions.Session) {
	session.Clear()
	session.Options(a.cookieOptions(-1))
	_ = session.Save()
}

// cookieOptions 与 router 中 cookie store 的默认配置保持一致，只有 MaxAge 不同。
func (a *API) cookieOptions(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func currentUser(c *gin.Context) (*db.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*db.User)
	return user, ok && user != nil
}

func currentActor(c *gin.Context) service.Actor {
	user, ok := currentUser(c)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{UserID: user.ID, IsAdmin: user.IsAdmin}
}

// RequireSession 要求请求携带有效会话。
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			fail(c, unauthorized("Unauthorized"))
			return
		}
		c.Next()
	}
}

// RequireAdmin 要求当前用户为管理员。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			fail(c, unauthorized("Unauthorized"))
			return
		}
		if !user.IsAdmin {
			fail(c, forbidden("Forbidden"))
			return
		}
		c.Next()
	}
}

// OwnerLoader returns the owner id of the resource identified by id.
type OwnerLoader func(id uint) (uint, error)

// RequireOwner loads the resource named by the path parameter and lets the
// request through only for its owner or an administrator. It runs before the
// body is bound, so a non-owner is refused whatever the payload.
func RequireOwner(param string, load OwnerLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			fail(c, unauthorized("Unauthorized"))
			return
		}

		id, err := parseUintParam(c, param)
		if err != nil {
			fail(c, badRequest("Invalid "+param))
			return
		}

		ownerID, err := load(id)
		if err != nil {
			fail(c, err)
			return
		}
		if !currentActor(c).CanModify(ownerID) {
			fail(c, forbidden("You are not allowed to modify this resource"))
			return
		}

		c.Set(paramContextKey(param), id)
		c.Next()
	}
}

// RequireSelf 只允许用户操作自己的账号，管理员也不例外。
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			fail(c, unauthorized("Unauthorized"))
			return
		}

		id, err := parseUintParam(c, param)
		if err != nil {
			fail(c, badRequest("Invalid "+param))
			return
		}
		if id != user.ID {
			fail(c, forbidden("You can only update your own account"))
			return
		}

		c.Set(paramContextKey(param), id)
		c.Next()
	}
}

// UserOwner treats a user account as owned by itself.
func (a *API) UserOwner(id uint) (uint, error) {
	user, err := a.users.Get(id)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// PostOwner returns the author of a post.
func (a *API) PostOwner(id uint) (uint, error) {
	return a.posts.OwnerID(id)
}

// CommentOwner returns the author of a comment.
func (a *API) CommentOwner(id uint) (uint, error) {
	return a.comments.OwnerID(id)
}
