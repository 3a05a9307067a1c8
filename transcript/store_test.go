package transcript

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m4xw311/gpterm/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = NewStore("")
	assert.Error(t, err)
}

func TestNewStoreFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewStore(filepath.Join(file, "sub"))
	assert.Error(t, err)
}

func TestValidateName(t *testing.T) {
	valid := []string{"notes", "my chat", "chat.json", "2024-01-01_10-00"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), name)
	}

	invalid := []string{"", "   ", "a/b", `a\b`, "a:b", "a<b", "a>b", `a"b`, "a|b", "a?b", "a*b", "a\x00b"}
	for _, name := range invalid {
		err := ValidateName(name)
		assert.True(t, errors.Is(err, errors.ErrInvalidName), "%q: %v", name, err)
	}
}

func TestPathAppendsSuffix(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	p, err := s.Path("myfile")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "myfile.json"), p)

	p, err = s.Path("myfile.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "myfile.json"), p)

	_, err = s.Path("../escape")
	assert.True(t, errors.Is(err, errors.ErrInvalidName))
}

func TestList(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, f := range []string{"zeta.json", "alpha.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), f), []byte("[]"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "nested", "deep.json"), []byte("[]"), 0644))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestDefaultName(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "conversation-2024-03-05_07-08-09", DefaultName(now))
	assert.NoError(t, ValidateName(DefaultName(now)))
}
