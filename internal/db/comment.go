package db

import (
	"time"

	"gorm.io/datatypes"
)

// MaxCommentLength 是评论内容允许的最大字符数。
const MaxCommentLength = 1000

// Comment 定义了评论模型。Hidden 为管理员审核后的软删除标记。
type Comment struct {
	ID            uint           `gorm:"primaryKey"`
	Content       string         `gorm:"type:text;not null"`
	PostID        uint           `gorm:"index;not null"`
	UserID        uint           `gorm:"index;not null"`
	Likes         datatypes.JSON `gorm:"type:json"`
	NumberOfLikes int            `gorm:"not null;default:0"`
	Hidden        bool           `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LikeSet 解码评论的点赞用户集合。
func (c *Comment) LikeSet() (LikeSet, error) {
	return DecodeLikeSet(c.Likes)
}

// SetLikeSet 写回点赞集合并同步计数。
func (c *Comment) SetLikeSet(set LikeSet) error {
	encoded, err := set.Encode()
	if err != nil {
		return err
	}
	c.Likes = encoded
	c.NumberOfLikes = set.Len()
	return nil
}
