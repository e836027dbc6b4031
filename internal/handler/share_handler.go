package handler

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
	"github.com/quillpress/internal/view"
)

const siteName = "Quillpress"

// SharePost renders the server-side share page of a post.
func (a *API) SharePost(c *gin.Context) {
	post, err := a.posts.GetBySlug(strings.TrimSpace(c.Param("slug")))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.String(http.StatusNotFound, "post not found")
			return
		}
		fail(c, err)
		return
	}

	author := ""
	if user, err := a.users.Get(post.UserID); err == nil {
		author = user.Username
	} else if !errors.Is(err, service.ErrUserNotFound) {
		fail(c, err)
		return
	}

	props := view.PostPageProps{
		SiteName:    siteName,
		Title:       post.Title,
		URL:         absoluteURL(c, "/p/"+post.Slug),
		Category:    post.Category,
		Image:       post.Image,
		Author:      author,
		Description: html.UnescapeString(service.PlainText(post.Content)),
		Content:     post.Content,
		ReadingTime: post.ReadingTime,
	}
	if !post.CreatedAt.IsZero() {
		props.PublishedAt = post.CreatedAt.Format("2006-01-02")
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := view.PostPage(props).Render(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func absoluteURL(c *gin.Context, path string) string {
	host := c.Request.Host
	if host == "" {
		return path
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + host + path
}
