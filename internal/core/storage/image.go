package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"enquiry-service/internal/domain"
)

const (
	JPEGQuality = 75
	DPDir       = "dps"
	// MaxPixels 解码前按头部声明的宽高拦截，避免超大图片撑爆内存
	MaxPixels = 4096 * 4096
)

var ErrOutsideRoot = errors.New("path escapes storage root")

// ImageStore 把 base64 图片转存为 JPEG，路径相对公开存储根目录
type ImageStore struct {
	Root      string // 磁盘根目录，如 storage/app/public
	URLPrefix string // 对外访问前缀，如 /storage
}

func NewImageStore(root, urlPrefix string) *ImageStore {
	return &ImageStore{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Save 解码 payload（纯 base64 或 data URI），重新编码为 JPEG 后写入 dps/<uuid>.jpg
func (s *ImageStore) Save(payload string) (string, error) {
	raw, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("%w: image %dx%d exceeds limit", domain.ErrDecode, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	rel := path.Join(DPDir, uuid.NewString()+".jpg")
	full := filepath.Join(s.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(full, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return rel, nil
}

// Delete 删除文件；不存在时不报错
func (s *ImageStore) Delete(rel string) error {
	if strings.TrimSpace(rel) == "" {
		return nil
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Exists 文件是否存在
func (s *ImageStore) Exists(rel string) bool {
	full, err := s.resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (s *ImageStore) URL(rel string) string {
	return s.URLPrefix + "/" + strings.TrimLeft(rel, "/")
}

func (s *ImageStore) resolve(rel string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(rel))
	if clean == "/" || strings.Contains(rel, "..") {
		return "", ErrOutsideRoot
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func decodePayload(payload string) ([]byte, error) {
	p := strings.TrimSpace(payload)
	if strings.HasPrefix(p, "data:") {
		comma := strings.IndexByte(p, ',')
		if comma < 0 || !strings.Contains(p[:comma], ";base64") {
			return nil, fmt.Errorf("%w: malformed data uri", domain.ErrDecode)
		}
		p = p[comma+1:]
	}
	if p == "" {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(p)
	if err != nil {
		if raw, err = base64.RawStdEncoding.DecodeString(p); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
	}
	return raw, nil
}
