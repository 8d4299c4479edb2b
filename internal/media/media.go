// Package media stores uploaded evidence bytes on local disk. Files are
// named by a random UUID plus the original extension and served under a
// fixed URL prefix.
package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"proofsy/pkg/platform/sentinel"
)

// URLPrefix is where stored files are served from.
const URLPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	".mp4": true, ".mov": true, ".avi": true, ".webm": true,
}

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/avi":       true,
	"video/webm":      true,
}

// Allowed reports whether both the file extension and the MIME type are on
// the image/video allow list.
func Allowed(fileName, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return allowedExtensions[ext] && allowedTypes[mt]
}

// Stored describes a saved file.
type Stored struct {
	ID   string
	URL  string
	Size int64
}

// Disk writes files under a single directory.
type Disk struct {
	dir string
}

// NewDisk creates dir when missing.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Dir is the directory served under URLPrefix.
func (d *Disk) Dir() string { return d.dir }

// Save writes data under a fresh name and returns its id and URL.
func (d *Disk) Save(ctx context.Context, fileName string, data []byte) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
	if err := os.WriteFile(filepath.Join(d.dir, id), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	return &Stored{ID: id, URL: URLPrefix + id, Size: int64(len(data))}, nil
}

// Discard removes a stored file. Unknown ids return sentinel.ErrNotFound.
func (d *Disk) Discard(_ context.Context, id string) error {
	if id != filepath.Base(id) {
		return fmt.Errorf("invalid media id %q", id)
	}
	if err := os.Remove(filepath.Join(d.dir, id)); err != nil {
		if os.IsNotExist(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
