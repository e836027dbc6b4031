package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quillpress/internal/db"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService wraps comment related database operations.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

// CommentInput represents fields accepted when adding a comment.
type CommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// CommentFilter describes the admin listing window.
type CommentFilter struct {
	Window
	Sort string
}

// CommentListResult 汇总后台评论列表及统计数据。
type CommentListResult struct {
	Comments  []db.Comment
	Total     int64
	LastMonth int64
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb, now: time.Now}
}

// Get fetches a comment by id.
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// OwnerID returns the id of the comment author.
func (s *CommentService) OwnerID(id uint) (uint, error) {
	comment, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return comment.UserID, nil
}

// Create adds a comment on behalf of actor. The author must be the actor itself
// and both the post and the author must exist at creation time.
func (s *CommentService) Create(actor Actor, input CommentInput) (*db.Comment, error) {
	if input.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	content, err := normalizeCommentContent(input.Content)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", input.PostID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	if err := s.db.Model(&db.User{}).Where("id = ?", input.UserID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	comment := db.Comment{
		Content: content,
		PostID:  input.PostID,
		UserID:  input.UserID,
	}
	if err := comment.SetLikeSet(nil); err != nil {
		return nil, err
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost 返回文章下的评论，按创建时间倒序。
// 文章已被删除时依然返回遗留的评论。
func (s *CommentService) ListForPost(postID uint, includeHidden bool) ([]db.Comment, error) {
	query := s.db.Where("post_id = ?", postID)
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}

	var comments []db.Comment
	if err := query.Order("created_at desc").Order("id desc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ToggleLike flips userID's membership in the comment like-set and returns the updated comment.
func (s *CommentService) ToggleLike(commentID, userID uint) (*db.Comment, error) {
	var comment db.Comment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		likes, err := comment.LikeSet()
		if err != nil {
			return err
		}
		next, _ := likes.Toggle(userID)
		if err := comment.SetLikeSet(next); err != nil {
			return err
		}

		return tx.Model(&comment).UpdateColumns(map[string]interface{}{
			"likes":           comment.Likes,
			"number_of_likes": comment.NumberOfLikes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Edit replaces the comment content.
func (s *CommentService) Edit(id uint, content string) (*db.Comment, error) {
	normalized, err := normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	comment.Content = normalized
	if err := s.db.Save(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// SetHidden 标记评论为隐藏或恢复显示（管理员审核用的软删除）。
func (s *CommentService) SetHidden(id uint, hidden bool) (*db.Comment, error) {
	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(comment).Update("hidden", hidden).Error; err != nil {
		return nil, err
	}
	comment.Hidden = hidden
	return comment, nil
}

// Delete removes a comment permanently.
func (s *CommentService) Delete(id uint) error {
	result := s.db.Delete(&db.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// List returns a window over all comments, hidden ones included, plus counters.
func (s *CommentService) List(filter CommentFilter) (*CommentListResult, error) {
	window := filter.Window.normalize(defaultListLimit)
	result := &CommentListResult{}

	direction := sortDirection(filter.Sort)
	if err := s.db.Order("created_at " + direction).
		Order("id " + direction).
		Offset(window.StartIndex).
		Limit(window.Limit).
		Find(&result.Comments).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Comment{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Comment{}).
		Where("created_at >= ?", oneMonthAgo(s.now())).
		Count(&result.LastMonth).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func normalizeCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", invalidf("comment content is required")
	}
	if utf8.RuneCountInString(trimmed) > db.MaxCommentLength {
		return "", invalidf("comment has maximum %d characters", db.MaxCommentLength)
	}
	return trimmed, nil
}
