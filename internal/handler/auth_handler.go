package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
)

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type googleSignInRequest struct {
	Email          string `json:"email" binding:"required"`
	Name           string `json:"name"`
	GooglePhotoURL string `json:"googlePhotoUrl"`
}

// SignUp 注册新用户，注册后不会自动登录。
func (a *API) SignUp(c *gin.Context) {
	var payload signUpRequest
	if !bindJSON(c, &payload, "All fields are required") {
		return
	}

	user, err := a.auth.SignUp(service.SignUpInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// SignIn accepts either an email or a username and starts a session.
func (a *API) SignIn(c *gin.Context) {
	var payload signInRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, service.ErrInvalidCredentials)
		return
	}

	identifier := payload.Email
	if identifier == "" {
		identifier = payload.Username
	}

	user, err := a.auth.SignIn(identifier, payload.Password)
	if err != nil {
		fail(c, err)
		return
	}

	if err := a.startSession(c, user); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, userPayload(user))
}

// GoogleSignIn 使用第三方身份登录，首次登录时自动建档。
func (a *API) GoogleSignIn(c *gin.Context) {
	var payload googleSignInRequest
	if !bindJSON(c, &payload, "Email is required") {
		return
	}

	user, created, err := a.auth.GoogleSignIn(service.GoogleSignInInput{
		Email:    payload.Email,
		Name:     payload.Name,
		PhotoURL: payload.GooglePhotoURL,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if err := a.startSession(c, user); err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, userPayload(user))
}

// SignOut 清除会话。
func (a *API) SignOut(c *gin.Context) {
	a.clearSession(sessions.Default(c))
	messageResponse(c, http.StatusOK, "User has been signed out")
}
