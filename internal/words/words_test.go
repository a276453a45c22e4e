package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDictionaryOrdersAndDedupes(t *testing.T) {
	d, err := NewDictionary([]string{"crane", " Slate", "adieu", "crane", "TRACE"})
	require.NoError(t, err)

	assert.Equal(t, []string{"adieu", "crane", "slate", "trace"}, d.Words())
	assert.Equal(t, 4, d.Len())

	i, ok := d.Index("SLATE")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "slate", d.Word(i))
	assert.False(t, d.Contains("zzzzz"))
}

func TestNewDictionaryRejects(t *testing.T) {
	_, err := NewDictionary([]string{"crane", "cranes"})
	assert.ErrorIs(t, err, ErrInvalidWord)

	_, err = NewDictionary([]string{"cr4ne"})
	assert.ErrorIs(t, err, ErrInvalidWord)

	_, err = NewDictionary(nil)
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestSetsAndFingerprint(t *testing.T) {
	d, err := NewDictionary([]string{"adieu", "crane", "slate", "trace"})
	require.NoError(t, err)

	all := d.All()
	assert.EqualValues(t, 4, all.Count())

	sub, missing := d.Subset([]string{"trace", "adieu", "other"})
	assert.Equal(t, []string{"other"}, missing)
	assert.Equal(t, []string{"adieu", "trace"}, d.Members(sub))

	same, err := NewDictionary([]string{"trace", "slate", "crane", "adieu"})
	require.NoError(t, err)
	assert.Equal(t, d.Fingerprint(), same.Fingerprint())

	other, err := NewDictionary([]string{"adieu", "crane", "slate"})
	require.NoError(t, err)
	assert.NotEqual(t, d.Fingerprint(), other.Fingerprint())
}

func TestLoadEmbedded(t *testing.T) {
	l, err := Load(Files{})
	require.NoError(t, err)

	dictCount, commonCount := l.Stats()
	assert.Greater(t, dictCount, commonCount)
	assert.Greater(t, commonCount, 0)
	assert.True(t, l.Dict.Contains("crane"))
	for _, w := range l.CommonWords() {
		assert.True(t, l.Dict.Contains(w), w)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "dict.txt")
	commonPath := filepath.Join(dir, "common.txt")
	require.NoError(t, os.WriteFile(dictPath, []byte("# words\nCrane\nslate\nnope\ntrace\n\n"), 0o644))
	require.NoError(t, os.WriteFile(commonPath, []byte("slate\nabout\n"), 0o644))

	l, err := Load(Files{Dictionary: dictPath, Common: commonPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"crane", "slate", "trace"}, l.Dict.Words())
	assert.Equal(t, []string{"slate"}, l.CommonWords())
}

func TestFilesFromEnv(t *testing.T) {
	t.Setenv("WORDS_DICTIONARY_FILE", "/tmp/d.txt")
	t.Setenv("WORDS_COMMON_FILE", "")
	assert.Equal(t, Files{Dictionary: "/tmp/d.txt"}, FilesFromEnv())
}
