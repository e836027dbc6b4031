package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quillpress/internal/db"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

const maxTitleRunes = 200

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
	Image    string
	Format   string
}

// PostPatch 描述局部更新，nil 字段保持原值。
type PostPatch struct {
	Title    *string
	Content  *string
	Category *string
	Image    *string
	Format   string
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Window
	UserID   uint
	PostID   uint
	Category string
	Slug     string
	Search   string
	Order    string
}

// PostListResult aggregates the listed window and counters.
type PostListResult struct {
	Posts     []db.Post
	Total     int64
	LastMonth int64
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

// Get fetches a post by id.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by its slug.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// OwnerID returns the id of the user owning the post.
func (s *PostService) OwnerID(id uint) (uint, error) {
	post, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return post.UserID, nil
}

// Create validates and persists a post, allocating a unique slug from its title.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	content, err := renderPostContent(input.Format, input.Content)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		UserID:      input.UserID,
		Title:       title,
		Content:     content,
		Category:    normalizeCategory(input.Category),
		Image:       normalizeImage(input.Image),
		ReadingTime: calculateReadingTime(content),
	}
	if err := post.SetLikeSet(nil); err != nil {
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, title, 0)
		if err != nil {
			return err
		}
		post.Slug = slug
		return tx.Create(&post).Error
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

// Update applies a partial update. The slug is re-derived only when the title changes.
func (s *PostService) Update(id uint, patch PostPatch) (*db.Post, error) {
	var updated *db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.Post
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if err := validateTitle(title); err != nil {
				return err
			}
			if title != existing.Title {
				slug, err := uniqueSlug(tx, title, existing.ID)
				if err != nil {
					return err
				}
				existing.Title = title
				existing.Slug = slug
			}
		}

		if patch.Content != nil {
			content, err := renderPostContent(patch.Format, *patch.Content)
			if err != nil {
				return err
			}
			existing.Content = content
			existing.ReadingTime = calculateReadingTime(content)
		}

		if patch.Category != nil {
			existing.Category = normalizeCategory(*patch.Category)
		}

		if patch.Image != nil {
			existing.Image = normalizeImage(*patch.Image)
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a post permanently. Its comments are left in place.
func (s *PostService) Delete(id uint) error {
	result := s.db.Delete(&db.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// RecordView 累加浏览次数并返回最新的文章数据，不修改 updated_at。
func (s *PostService) RecordView(id uint) (*db.Post, error) {
	result := s.db.Model(&db.Post{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return s.Get(id)
}

// ToggleLike flips userID's membership in the post like-set.
func (s *PostService) ToggleLike(postID, userID uint) (*db.Post, error) {
	var post db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		likes, err := post.LikeSet()
		if err != nil {
			return err
		}
		next, _ := likes.Toggle(userID)
		if err := post.SetLikeSet(next); err != nil {
			return err
		}

		return tx.Model(&post).UpdateColumns(map[string]interface{}{
			"likes":           post.Likes,
			"number_of_likes": post.NumberOfLikes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List provides a window of posts with overall counters.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	window := filter.Window.normalize(defaultListLimit)
	result := &PostListResult{}

	direction := sortDirection(filter.Order)
	query := s.applyFilters(s.db.Model(&db.Post{}), filter)
	if err := query.
		Order("updated_at " + direction).
		Order("id " + direction).
		Offset(window.StartIndex).
		Limit(window.Limit).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Post{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Post{}).
		Where("created_at >= ?", oneMonthAgo(s.now())).
		Count(&result.LastMonth).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PostID != 0 {
		query = query.Where("id = ?", filter.PostID)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if slug := strings.TrimSpace(filter.Slug); slug != "" {
		query = query.Where("slug = ?", slug)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		query = query.Where(`(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')`, like, like)
	}
	return query
}

// escapeLike 转义 LIKE 通配符，搜索词按字面匹配
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func validateTitle(title string) error {
	if title == "" {
		return invalidf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return invalidf("title must be at most %d characters", maxTitleRunes)
	}
	return nil
}

func renderPostContent(format, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", invalidf("content is required")
	}
	content, err := RenderContent(format, raw)
	if err != nil {
		return "", err
	}
	if PlainText(content) == "" && !strings.Contains(content, "<img") {
		return "", invalidf("content is required")
	}
	return content, nil
}

func normalizeCategory(category string) string {
	trimmed := strings.ToLower(strings.TrimSpace(category))
	if trimmed == "" {
		return db.DefaultPostCategory
	}
	return trimmed
}

func normalizeImage(image string) string {
	trimmed := strings.TrimSpace(image)
	if trimmed == "" {
		return db.DefaultPostImage
	}
	return trimmed
}
