package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSecret_CreatesFileAndParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token")

	require.NoError(t, WriteSecret(path, []byte("abc\n")))

	got, err := ReadSecret(path)
	require.NoError(t, err)
	require.Equal(t, "abc", got)

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

		di, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o700), di.Mode().Perm()&0o700)
	}
}

func TestWriteSecret_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	require.NoError(t, WriteSecret(path, []byte("first")))
	require.NoError(t, WriteSecret(path, []byte("second")))

	got, err := ReadSecret(path)
	require.NoError(t, err)
	require.Equal(t, "second", got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteSecret_FailsIfParentIsFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := WriteSecret(filepath.Join(blocker, "token"), []byte("x"))
	require.Error(t, err)
}

func TestReadSecret_Missing(t *testing.T) {
	_, err := ReadSecret(filepath.Join(t.TempDir(), "none"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoveSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, WriteSecret(path, []byte("x")))

	require.NoError(t, RemoveSecret(path))
	require.NoError(t, RemoveSecret(path))

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}
