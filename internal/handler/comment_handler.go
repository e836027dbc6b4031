package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
)

type addCommentRequest struct {
	UserID  uint   `json:"userId"`
	PostID  uint   `json:"postId" binding:"required"`
	Content string `json:"content"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

type hideCommentRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

// AddComment 以当前用户身份发表评论，body 中的 userId 必须与会话一致。
func (a *API) AddComment(c *gin.Context) {
	var payload addCommentRequest
	if !bindJSON(c, &payload, "Invalid comment payload") {
		return
	}

	comment, err := a.comments.Create(currentActor(c), service.CommentInput{
		UserID:  payload.UserID,
		PostID:  payload.PostID,
		Content: payload.Content,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, commentPayload(comment))
}

// ListPostComments returns the comments of a post as a bare array, newest first.
// Hidden comments are only visible to administrators.
func (a *API) ListPostComments(c *gin.Context) {
	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	comments, err := a.comments.ListForPost(postID, currentActor(c).IsAdmin)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, commentsPayload(comments))
}

// LikeComment 切换当前用户对评论的点赞状态。
func (a *API) LikeComment(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	comment, err := a.comments.ToggleLike(id, currentActor(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, commentPayload(comment))
}

// EditComment replaces the comment content. Ownership is checked by RequireOwner.
func (a *API) EditComment(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var payload editCommentRequest
	if !bindJSON(c, &payload, "Invalid comment payload") {
		return
	}

	comment, err := a.comments.Edit(id, payload.Content)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, commentPayload(comment))
}

// DeleteComment 永久删除评论。
func (a *API) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := a.comments.Delete(id); err != nil {
		fail(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "Comment has been deleted")
}

// HideComment 管理员隐藏或恢复评论。
func (a *API) HideComment(c *gin.Context) {
	id, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var payload hideCommentRequest
	if !bindJSON(c, &payload, "hidden is required") {
		return
	}

	comment, err := a.comments.SetHidden(id, *payload.Hidden)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, commentPayload(comment))
}

// ListComments returns the admin comment listing with counters.
func (a *API) ListComments(c *gin.Context) {
	result, err := a.comments.List(service.CommentFilter{
		Window: queryWindow(c),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":          commentsPayload(result.Comments),
		"totalComments":     result.Total,
		"lastMonthComments": result.LastMonth,
	})
}
