package connectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"b.csv":          "a\n1\n",
		"a.CSV":          "a\n1\n",
		"notes.md":       "# notes",
		"big.tsv":        "a\tb\n" + string(make([]byte, 200)),
		"sub/c.csv":      "a\n2\n",
		"sub/d.xlsx":     "not really a workbook",
		"sub/deep/e.csv": "a\n3\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func paths(root string, files []FileMeta) []string {
	var out []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscoverFilesTopLevel(t *testing.T) {
	root := makeTree(t)
	files, err := DiscoverFiles(root, []string{"csv"}, DiscoveryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.CSV", "b.csv"}, paths(root, files))
}

func TestDiscoverFilesRecursiveMultipleExtensions(t *testing.T) {
	root := makeTree(t)
	files, err := DiscoverFiles(root, []string{".csv", ".xlsx"}, DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.CSV", "b.csv", "sub/c.csv", "sub/d.xlsx", "sub/deep/e.csv"}, paths(root, files))
}

func TestDiscoverFilesSizeFilter(t *testing.T) {
	root := makeTree(t)
	files, err := DiscoverFiles(root, []string{"tsv", "csv"}, DiscoveryOptions{MinSize: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"big.tsv"}, paths(root, files))

	files, err = DiscoverFiles(root, []string{"tsv", "csv"}, DiscoveryOptions{MaxSize: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.CSV", "b.csv"}, paths(root, files))
}

func TestDiscoverFilesErrors(t *testing.T) {
	root := makeTree(t)

	_, err := DiscoverFiles("", []string{"csv"}, DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(filepath.Join(root, "missing"), []string{"csv"}, DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(filepath.Join(root, "b.csv"), []string{"csv"}, DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(root, []string{""}, DiscoveryOptions{})
	assert.Error(t, err)
}

func TestDiscoverFilesNoMatches(t *testing.T) {
	files, err := DiscoverFiles(t.TempDir(), []string{"csv"}, DiscoveryOptions{})
	require.NoError(t, err)
	assert.Empty(t, files)
}
