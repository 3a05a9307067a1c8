package transcript

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m4xw311/gpterm/errors"
)

const fileExt = ".json"

// reservedChars may not appear in a conversation name.
const reservedChars = "<>:\"/\\|?*\x00"

// Store maps conversation names to JSON files inside a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("conversations directory is not configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "could not create conversations directory %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// ValidateName rejects empty names and names containing path separators or
// characters reserved on common filesystems.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Wrapf(errors.ErrInvalidName, "file name is empty")
	}
	if i := strings.IndexAny(name, reservedChars); i >= 0 {
		return errors.Wrapf(errors.ErrInvalidName, "file name %q contains %q", name, name[i])
	}
	return nil
}

// Path returns the file for the named conversation, appending the .json
// suffix when the name lacks it.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if !strings.HasSuffix(name, fileExt) {
		name += fileExt
	}
	return filepath.Join(s.dir, name), nil
}

// List returns the saved conversation names without their extension.
func (s *Store) List() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(s.dir), "*"+fileExt)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list %s", s.dir)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// DefaultName is the name used when the user saves without picking one.
func DefaultName(now time.Time) string {
	return "conversation-" + now.Format("2006-01-02_15-04-05")
}
