package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
)

type createPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Format   string `json:"format"`
}

type updatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
	Format   string  `json:"format"`
}

// CreatePost 由管理员发布文章，slug 根据标题生成。
func (a *API) CreatePost(c *gin.Context) {
	var payload createPostRequest
	if !bindJSON(c, &payload, "Please provide all required fields") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		UserID:   currentActor(c).UserID,
		Title:    payload.Title,
		Content:  payload.Content,
		Category: payload.Category,
		Image:    payload.Image,
		Format:   payload.Format,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, postPayload(post))
}

// ListPosts returns a filtered window of posts with overall counters.
func (a *API) ListPosts(c *gin.Context) {
	result, err := a.posts.List(service.PostFilter{
		Window:   queryWindow(c),
		UserID:   queryUint(c, "userId"),
		PostID:   queryUint(c, "postId"),
		Category: strings.TrimSpace(c.Query("category")),
		Slug:     strings.TrimSpace(c.Query("slug")),
		Search:   strings.TrimSpace(c.Query("searchTerm")),
		Order:    c.Query("order"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          postsPayload(result.Posts),
		"totalPosts":     result.Total,
		"lastMonthPosts": result.LastMonth,
	})
}

// GetPostBySlug 返回单篇文章并累加阅读数。
func (a *API) GetPostBySlug(c *gin.Context) {
	post, err := a.posts.GetBySlug(strings.TrimSpace(c.Param("slug")))
	if err != nil {
		fail(c, err)
		return
	}

	viewed, err := a.posts.RecordView(post.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, postPayload(viewed))
}

// UpdatePost applies a partial update. Ownership is checked by RequireOwner.
func (a *API) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "postId")
	if !ok {
		return
	}

	var payload updatePostRequest
	if !bindJSON(c, &payload, "Invalid post payload") {
		return
	}

	post, err := a.posts.Update(id, service.PostPatch{
		Title:    payload.Title,
		Content:  payload.Content,
		Category: payload.Category,
		Image:    payload.Image,
		Format:   payload.Format,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, postPayload(post))
}

// DeletePost 删除文章，评论保留。
func (a *API) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "postId")
	if !ok {
		return
	}

	if err := a.posts.Delete(id); err != nil {
		fail(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "The post has been deleted")
}

// LikePost toggles the caller in the post like-set.
func (a *API) LikePost(c *gin.Context) {
	id, ok := pathID(c, "postId")
	if !ok {
		return
	}

	post, err := a.posts.ToggleLike(id, currentActor(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, postPayload(post))
}
