package terms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Formats(t *testing.T) {
	files := map[string]string{
		"terms.yaml": "terms:\n  nl: Nederland\n  be: België\ncontent:\n  \"42\": be\n  \"43\": nl\n",
		"terms.json": `{"terms":{"nl":"Nederland","be":"België"},"content":{"42":"be","43":"nl"}}`,
		"terms.toml": "[terms]\nnl = \"Nederland\"\nbe = \"België\"\n\n[content]\n\"42\" = \"be\"\n\"43\" = \"nl\"\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			repo, err := LoadFile(writeFile(t, name, content))
			require.NoError(t, err)

			slug, ok, err := repo.DomainTerm("42")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "be", slug)

			_, ok, err = repo.DomainTerm("1")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.Equal(t, 2, repo.Assignments())
			assert.Equal(t, []Term{
				{Slug: "", Name: SelectPrompt},
				{Slug: "be", Name: "België"},
				{Slug: "nl", Name: "Nederland"},
			}, repo.Terms())
		})
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile(writeFile(t, "terms.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_UnknownTerm(t *testing.T) {
	_, err := LoadFile(writeFile(t, "terms.yaml", "terms:\n  nl: Nederland\ncontent:\n  \"1\": fr\n"))
	assert.ErrorContains(t, err, "unknown term")
}

func TestNew(t *testing.T) {
	repo, err := New(nil, map[string]string{"1": " nl ", " ": "be", "2": ""})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Assignments())

	slug, ok, _ := repo.DomainTerm("1")
	assert.True(t, ok)
	assert.Equal(t, "nl", slug)

	assert.Equal(t, []Term{{Slug: "", Name: SelectPrompt}}, repo.Terms())

	_, err = New(map[string]string{" ": "x"}, nil)
	assert.Error(t, err)

	repo, err = New(map[string]string{"nl": ""}, nil)
	require.NoError(t, err)
	assert.Equal(t, "nl", repo.Terms()[1].Name)
}
