package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quillpress/internal/db"
	"gorm.io/gorm"
)

const (
	fallbackSlug     = "post"
	maxSlugAttempts  = 1000
	maxSlugBaseRunes = 80
)

// Slugify 将标题转换为 URL 安全的 slug：小写、空白转连字符、去掉 [a-z0-9-] 以外的字符。
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '\t' || r == '\n' || r == '_':
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugBaseRunes {
		slug = strings.TrimRight(slug[:maxSlugBaseRunes], "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// uniqueSlug 返回未被其他文章占用的 slug，冲突时依次追加 -2、-3 后缀。
func uniqueSlug(tx *gorm.DB, title string, excludeID uint) (string, error) {
	base := Slugify(title)
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}

		query := tx.Model(&db.Post{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("unable to allocate a unique slug")
}
