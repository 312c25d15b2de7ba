package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/paynotify/internal/directory/config"
)

func writeAuthorsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "author_ids.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDirectoryResolve(t *testing.T) {
	path := writeAuthorsFile(t,
		"Author,TelegramID\n"+
			"Иванов,100100\n"+
			"Петров,100200\n"+
			"Unknown,100999\n")

	dir, err := NewDirectory(config.Config{AuthorsFile: path, AdminChatID: 500})
	require.NoError(t, err)

	require.Equal(t, int64(100100), dir.Resolve("Иванов"))
	require.Equal(t, int64(100200), dir.Resolve("Петров"))

	// неизвестный автор уходит на получателя по умолчанию
	require.Equal(t, int64(100999), dir.Resolve("Сидоров"))

	adminID, ok := dir.Admin()
	require.True(t, ok)
	require.Equal(t, int64(500), adminID)
}

func TestDirectoryNoFallback(t *testing.T) {
	path := writeAuthorsFile(t, "Author,TelegramID\nИванов,100100\n")

	_, err := NewDirectory(config.Config{AuthorsFile: path})
	require.ErrorIs(t, err, ErrNoFallback)
}

func TestDirectoryNoAdmin(t *testing.T) {
	path := writeAuthorsFile(t, "Unknown,100999\n")

	dir, err := NewDirectory(config.Config{AuthorsFile: path})
	require.NoError(t, err)

	_, ok := dir.Admin()
	require.False(t, ok)
}
