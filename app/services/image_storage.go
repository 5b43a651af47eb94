package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"go.uber.org/zap"
)

const (
	uploadSubdir    = "uploads/products"
	imagesURLPrefix = "/images/"
	MaxUploadSize   = 10 << 20
)

var (
	ErrForbiddenPath        = errors.New("path escapes the images directory")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadedImage struct {
	URL          string `json:"url"`
	RelativePath string `json:"relativePath"`
	Filename     string `json:"filename"`
}

// ImageStorage keeps product images in a local directory.
type ImageStorage struct {
	root string
	now  func() time.Time
	log  *zap.Logger
}

func NewImageStorage(root string) *ImageStorage {
	return &ImageStorage{
		root: root,
		now:  time.Now,
		log:  logger.GetLogger(),
	}
}

func (s *ImageStorage) Root() string {
	return s.root
}

// Save sniffs the content type from the payload, not the client header.
func (s *ImageStorage) Save(originalName string, r io.Reader) (*UploadedImage, error) {
	br := bufio.NewReaderSize(io.LimitReader(r, MaxUploadSize+1), 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("empty upload: %w", ErrValidation)
	}

	mime := http.DetectContentType(head)
	ext, ok := allowedImageTypes[mime]
	if !ok {
		return nil, fmt.Errorf("%s: %w", mime, ErrUnsupportedImageType)
	}

	base := helpers.Transliterate(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	if base == "" {
		base = "image"
	}
	filename := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), base, ext)
	relativePath := path.Join(uploadSubdir, filename)

	dir := filepath.Join(s.root, filepath.FromSlash(uploadSubdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create image file: %w", err)
	}
	written, copyErr := io.Copy(dst, br)
	closeErr := dst.Close()
	if copyErr == nil && written > MaxUploadSize {
		copyErr = fmt.Errorf("upload exceeds %d bytes: %w", MaxUploadSize, ErrValidation)
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dst.Name())
		if copyErr != nil {
			return nil, copyErr
		}
		return nil, fmt.Errorf("failed to write image file: %w", closeErr)
	}

	s.log.Info("image uploaded", zap.String("relative_path", relativePath), zap.Int64("bytes", written))
	return &UploadedImage{
		URL:          imagesURLPrefix + relativePath,
		RelativePath: relativePath,
		Filename:     filename,
	}, nil
}

// Resolve maps a request path to a file under the root directory.
func (s *ImageStorage) Resolve(requested string) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(requested, "/"))
	if rel == "" || strings.Contains(requested, "\x00") {
		return "", ErrForbiddenPath
	}

	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve images directory: %w", err)
	}
	full := filepath.Join(root, rel)
	inside, err := filepath.Rel(root, full)
	if err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", ErrForbiddenPath
	}
	return full, nil
}
