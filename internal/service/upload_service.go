package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var (
	ErrUploadTooLarge    = errors.New("uploaded file is too large")
	ErrUnsupportedImage  = errors.New("unsupported image format")
	ErrUploadUnavailable = errors.New("upload storage is not configured")
)

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadService 负责校验图片并写入本地上传目录。
type UploadService struct {
	dir      string
	urlPath  string
	maxBytes int64
	now      func() time.Time
}

// UploadedImage describes a stored image.
type UploadedImage struct {
	URL    string
	Width  int
	Height int
	Format string
}

// NewUploadService creates an UploadService writing into dir and serving from urlPath.
func NewUploadService(dir, urlPath string, maxBytes int64) *UploadService {
	return &UploadService{
		dir:      strings.TrimSpace(dir),
		urlPath:  "/" + strings.Trim(strings.TrimSpace(urlPath), "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// SaveImage 读取 src，确认其为受支持的图片后以 日期-uuid 的文件名保存。
func (s *UploadService) SaveImage(src io.Reader, size int64) (*UploadedImage, error) {
	if s.dir == "" {
		return nil, ErrUploadUnavailable
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrUploadTooLarge
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	reader := src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	written, err := io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		tmp.Close()
		return nil, ErrUploadTooLarge
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(tmp)
	tmp.Close()
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	ext, ok := imageExtensions[format]
	if !ok || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupportedImage
	}

	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.NewString(), ext)
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &UploadedImage{
		URL:    path.Join(s.urlPath, name),
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}
