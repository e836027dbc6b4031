package db

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultPostCategory = "uncategorized"
	DefaultPostImage    = "https://www.hostinger.com/tutorials/wp-content/uploads/sites/2/2021/09/how-to-write-a-blog-post.png"
)

// Post 定义了文章模型
type Post struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;not null"`
	Title         string `gorm:"index;not null"`
	Slug          string `gorm:"uniqueIndex;not null"`
	Content       string `gorm:"type:text;not null"`
	Category      string `gorm:"index;not null"`
	Image         string `gorm:"not null"`
	ReadingTime   int
	Views         uint64         `gorm:"not null;default:0"`
	Likes         datatypes.JSON `gorm:"type:json"`
	NumberOfLikes int            `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LikeSet 解码文章的点赞用户集合。
func (p *Post) LikeSet() (LikeSet, error) {
	return DecodeLikeSet(p.Likes)
}

// SetLikeSet 写回点赞集合并同步计数。
func (p *Post) SetLikeSet(set LikeSet) error {
	encoded, err := set.Encode()
	if err != nil {
		return err
	}
	p.Likes = encoded
	p.NumberOfLikes = set.Len()
	return nil
}
