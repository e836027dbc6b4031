package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/db"
)

func userPayload(user *db.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"profilePicture": user.ProfilePicture,
		"isAdmin":        user.IsAdmin,
		"createdAt":      formatTime(user.CreatedAt),
		"updatedAt":      formatTime(user.UpdatedAt),
	}
}

func usersPayload(users []db.User) []gin.H {
	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userPayload(&users[i]))
	}
	return items
}

func postPayload(post *db.Post) gin.H {
	return gin.H{
		"id":            post.ID,
		"userId":        post.UserID,
		"title":         post.Title,
		"slug":          post.Slug,
		"content":       post.Content,
		"category":      post.Category,
		"image":         post.Image,
		"readingTime":   post.ReadingTime,
		"views":         post.Views,
		"likes":         likeIDs(post.LikeSet()),
		"numberOfLikes": post.NumberOfLikes,
		"createdAt":     formatTime(post.CreatedAt),
		"updatedAt":     formatTime(post.UpdatedAt),
	}
}

func postsPayload(posts []db.Post) []gin.H {
	items := make([]gin.H, 0, len(posts))
	for i := range posts {
		items = append(items, postPayload(&posts[i]))
	}
	return items
}

func commentPayload(comment *db.Comment) gin.H {
	return gin.H{
		"id":            comment.ID,
		"content":       comment.Content,
		"postId":        comment.PostID,
		"userId":        comment.UserID,
		"likes":         likeIDs(comment.LikeSet()),
		"numberOfLikes": comment.NumberOfLikes,
		"hidden":        comment.Hidden,
		"createdAt":     formatTime(comment.CreatedAt),
		"updatedAt":     formatTime(comment.UpdatedAt),
	}
}

func commentsPayload(comments []db.Comment) []gin.H {
	items := make([]gin.H, 0, len(comments))
	for i := range comments {
		items = append(items, commentPayload(&comments[i]))
	}
	return items
}

// likeIDs 保证空集合或无法解析的集合序列化为 []。
func likeIDs(set db.LikeSet, err error) []uint {
	if err != nil || len(set) == 0 {
		return []uint{}
	}
	return set
}
