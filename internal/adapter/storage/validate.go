// Package storage holds the upload rules shared by both image store
// variants: format allow-list, per-file size ceiling and per-request file
// count ceiling.
package storage

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is the per-file upload ceiling.
	MaxFileSize = 5 * 1024 * 1024

	// MaxFilesPerUpload caps a single multipart request.
	MaxFilesPerUpload = 10
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrTooManyFiles    = errors.New("too many files in one upload")
	ErrUnsupportedType = errors.New("only JPEG, JPG, PNG and GIF images are allowed")
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidateHeader rejects a file whose extension or declared content type is
// outside the image allow-list, or whose size exceeds the ceiling.
func ValidateHeader(h *multipart.FileHeader) error {
	if h.Size <= 0 || h.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedType
	}
	if !allowedContentTypes[h.Header.Get("Content-Type")] {
		return ErrUnsupportedType
	}
	return nil
}

// ValidateBatch rejects an upload carrying more files than the ceiling.
func ValidateBatch(headers []*multipart.FileHeader) error {
	if len(headers) > MaxFilesPerUpload {
		return ErrTooManyFiles
	}
	for _, h := range headers {
		if err := ValidateHeader(h); err != nil {
			return err
		}
	}
	return nil
}
