package version

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeMarker creates a marker file with the given content in a temp dir.
func writeMarker(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "__init__.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_Read(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    Version
		wantErr error
	}{
		"double quoted": {
			content: "__version__ = \"1.4.2\"\n",
			want:    Version{1, 4, 2},
		},
		"single quoted without spaces": {
			content: "__version__='0.9.0'\n",
			want:    Version{0, 9, 0},
		},
		"type annotated": {
			content: "__version__: str = \"2.0.1\"\n",
			want:    Version{2, 0, 1},
		},
		"first assignment wins": {
			content: "\"\"\"pkg\"\"\"\n__version__ = \"1.0.0\"\n__version__ = \"9.9.9\"\n",
			want:    Version{1, 0, 0},
		},
		"missing assignment defaults to zero": {
			content: "print('hello')\n",
			want:    Zero,
		},
		"similar name ignored": {
			content: "my__version__ = \"5.5.5\"\n",
			want:    Zero,
		},
		"malformed assigned value": {
			content: "__version__ = \"1.0.0rc1\"\n",
			wantErr: ErrInvalidVersion,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := NewStore(StoreOptions{MarkerPath: writeMarker(t, tt.content)})
			got, err := store.Read()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_ReadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(StoreOptions{MarkerPath: filepath.Join(t.TempDir(), "nope.py")})
	_, err := store.Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	versions := []Version{
		{0, 0, 0},
		{0, 1, 1},
		{1, 2, 3},
		{10, 0, 42},
		{2147483647, 0, 1},
	}

	for _, v := range versions {
		t.Run(v.String(), func(t *testing.T) {
			t.Parallel()

			store := NewStore(StoreOptions{MarkerPath: writeMarker(t, "__version__ = \"0.0.1\"\n")})
			require.NoError(t, store.Write(v))

			got, err := store.Read()
			require.NoError(t, err)
			assert.Equal(t, v, got)
		})
	}
}

func TestStore_WriteOnlyTouchesFirstAssignment(t *testing.T) {
	t.Parallel()

	content := "# header\n__version__ = '1.0.0'  # keep me\nOTHER = \"x\"\n__version__ = \"1.0.0\"\n"
	path := writeMarker(t, content)
	store := NewStore(StoreOptions{MarkerPath: path})

	require.NoError(t, store.Write(Version{1, 1, 0}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# header\n__version__ = '1.1.0'  # keep me\nOTHER = \"x\"\n__version__ = \"1.0.0\"\n", string(data))
}

func TestStore_WriteWithoutAssignment(t *testing.T) {
	t.Parallel()

	path := writeMarker(t, "nothing here\n")
	store := NewStore(StoreOptions{MarkerPath: path})

	err := store.Write(Version{1, 0, 0})
	assert.ErrorIs(t, err, ErrVersionNotFound)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nothing here\n", string(data))
}

func TestStore_CustomVariable(t *testing.T) {
	t.Parallel()

	path := writeMarker(t, "VERSION = \"3.2.1\"\n__version__ = \"0.0.1\"\n")
	store := NewStore(StoreOptions{MarkerPath: path, Variable: "VERSION"})

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, Version{3, 2, 1}, got)
}

func TestStore_WritePreservesMode(t *testing.T) {
	t.Parallel()

	path := writeMarker(t, "__version__ = \"1.0.0\"\n")
	require.NoError(t, os.Chmod(path, 0o600))

	store := NewStore(StoreOptions{MarkerPath: path})
	require.NoError(t, store.Write(Version{1, 0, 1}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
