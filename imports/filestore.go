package imports

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps uploaded workbooks on disk for the lifetime of their
// import session. Filenames derive from the session id, so concurrent
// sessions never collide.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "labinventory-uploads")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the workbook bytes and returns the path.
func (s *FileStore) Save(sessionID string, data []byte) (string, error) {
	path := s.Path(sessionID)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// Remove deletes the session's workbook. A missing file is not an error.
func (s *FileStore) Remove(sessionID string) error {
	err := os.Remove(s.Path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Path returns the session-scoped workbook location.
func (s *FileStore) Path(sessionID string) string {
	return filepath.Join(s.dir, "upload-"+sessionID+".xlsx")
}
