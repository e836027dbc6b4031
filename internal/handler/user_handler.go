package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
)

type updateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	ProfilePicture *string `json:"profilePicture"`
}

// GetUser 返回公开的用户资料。
func (a *API) GetUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := a.users.Get(id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, userPayload(user))
}

// UpdateUser applies a partial update to the caller's own account.
func (a *API) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var payload updateUserRequest
	if !bindJSON(c, &payload, "Invalid user payload") {
		return
	}

	user, err := a.users.Update(id, service.UserPatch{
		Username:       payload.Username,
		Email:          payload.Email,
		Password:       payload.Password,
		ProfilePicture: payload.ProfilePicture,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, userPayload(user))
}

// DeleteUser 删除账号；用户删除自己时同时结束会话。
func (a *API) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := a.users.Delete(id); err != nil {
		fail(c, err)
		return
	}

	if currentActor(c).UserID == id {
		a.clearSession(sessions.Default(c))
	}
	messageResponse(c, http.StatusOK, "User has been deleted")
}

// ListUsers 为管理员返回分页用户列表与统计。
func (a *API) ListUsers(c *gin.Context) {
	result, err := a.users.List(service.UserFilter{
		Window: queryWindow(c),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":          usersPayload(result.Users),
		"totalUsers":     result.Total,
		"lastMonthUsers": result.LastMonth,
	})
}
