package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps supply attachments on local disk under a single root
// directory. Stored names are opaque (uuid + original extension) so client
// names can never escape the root.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore root: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Save writes data under a generated name and returns that name.
func (fs *FileStore) Save(originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	if len(ext) > 12 {
		ext = ""
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(fs.root, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Path resolves a stored name to an absolute path, verifying the file exists.
func (fs *FileStore) Path(storedName string) (string, error) {
	if strings.Contains(storedName, "..") || strings.ContainsRune(storedName, os.PathSeparator) {
		return "", fmt.Errorf("invalid stored name %q", storedName)
	}
	p := filepath.Join(fs.root, storedName)
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}

// Remove deletes a stored file. Missing files are not an error: deletion is
// best-effort cleanup after the DB row is gone.
func (fs *FileStore) Remove(storedName string) error {
	p, err := fs.Path(storedName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(p)
}
