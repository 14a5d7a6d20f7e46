package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrBadExtension = errors.New("file extension not allowed")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// maxImageDim bounds the longest side of stored images.
const maxImageDim = 2048

// FileStore saves uploaded images under BaseDir and hands out relative paths
// that join onto the public /uploads route. Callers never see absolute paths.
type FileStore struct {
	BaseDir  string
	MaxBytes int64
	Logger   zerolog.Logger
}

// Save validates the upload, then best-effort re-encodes it (bounding-box
// downscale, quality-bounded JPEG-style re-encode). If decoding fails the
// original bytes are stored unmodified; that path logs and never errors.
func (f *FileStore) Save(content []byte, filename, subfolder string) (string, error) {
	if int64(len(content)) > f.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes over %d limit", ErrFileTooLarge, len(content), f.MaxBytes)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrBadExtension, ext)
	}

	dir := filepath.Join(f.BaseDir, subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	fullPath := filepath.Join(dir, name)

	if err := f.writeOptimized(content, fullPath); err != nil {
		f.Logger.Warn().Err(err).Str("file", name).Msg("image optimization failed, storing original bytes")
		if err := os.WriteFile(fullPath, content, 0o644); err != nil {
			return "", err
		}
	}

	relative := filepath.ToSlash(filepath.Join(subfolder, name))
	f.Logger.Info().Str("path", relative).Msg("file stored")
	return relative, nil
}

func (f *FileStore) writeOptimized(content []byte, fullPath string) error {
	img, err := imaging.Decode(bytes.NewReader(content), imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxImageDim || bounds.Dy() > maxImageDim {
		img = imaging.Fit(img, maxImageDim, maxImageDim, imaging.Lanczos)
	}
	return imaging.Save(img, fullPath, imaging.JPEGQuality(85))
}

func (f *FileStore) Delete(relativePath string) bool {
	fullPath := filepath.Join(f.BaseDir, filepath.FromSlash(relativePath))
	if err := os.Remove(fullPath); err != nil {
		f.Logger.Warn().Err(err).Str("path", relativePath).Msg("file delete failed")
		return false
	}
	return true
}

// Read returns the stored bytes for a relative path, used to feed the photo
// into the vision classifier.
func (f *FileStore) Read(relativePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.BaseDir, filepath.FromSlash(relativePath)))
}

// URL joins a stored relative path onto the public uploads route.
func URL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return "/uploads/" + relativePath
}
