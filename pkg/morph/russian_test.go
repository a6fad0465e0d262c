package morph

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const modernProfile = "бежать\tбежать\tINFN\t1\n" +
	"стали\tстать\tVERB\t0.7\n" +
	"стали\tсталь\tNOUN\t0.3\n" +
	"Бегу\tбежать\tVERB\t1\n"

func TestOpenRussian_Preferred(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		ProfileFile(ProfileRussian):    {Data: gzipped(t, modernProfile)},
		ProfileFile(ProfileRussianOld): {Data: gzipped(t, "бѣжать\tбѣжать\tINFN\t1\n")},
	}

	r, err := OpenRussian(fsys, ProfileRussian, ProfileRussianOld, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, ProfileRussian, r.Profile())
}

func TestOpenRussian_FallsBackWhenPreferredMissing(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		ProfileFile(ProfileRussianOld): {Data: gzipped(t, modernProfile)},
	}

	r, err := OpenRussian(fsys, ProfileRussian, ProfileRussianOld, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, ProfileRussianOld, r.Profile())
	assert.Equal(t, "бежать", Best(r, "бегу"))
}

func TestOpenRussian_NoFallbackOnCorruptProfile(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		ProfileFile(ProfileRussian):    {Data: gzipped(t, "стали\tстать\tVERB\tnot-a-number\n")},
		ProfileFile(ProfileRussianOld): {Data: gzipped(t, modernProfile)},
	}

	_, err := OpenRussian(fsys, ProfileRussian, ProfileRussianOld, newTestLogger())
	assert.ErrorContains(t, err, "score")
}

func TestOpenRussian_BothMissing(t *testing.T) {
	t.Parallel()

	_, err := OpenRussian(fstest.MapFS{}, ProfileRussian, ProfileRussianOld, newTestLogger())
	assert.Error(t, err)
}

func TestRussian_ParseRanksByScore(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{ProfileFile(ProfileRussian): {Data: gzipped(t, modernProfile)}}
	r, err := OpenRussian(fsys, ProfileRussian, "", newTestLogger())
	require.NoError(t, err)

	parses := r.Parse("Стали")
	require.Len(t, parses, 2)
	assert.Equal(t, "стать", parses[0].NormalForm)
	assert.Equal(t, "сталь", parses[1].NormalForm)

	assert.Equal(t, "бежать", Best(r, "бегу"))
}

func TestRussian_UnknownWordIsLowercased(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{ProfileFile(ProfileRussian): {Data: gzipped(t, modernProfile)}}
	r, err := OpenRussian(fsys, ProfileRussian, "", newTestLogger())
	require.NoError(t, err)

	parses := r.Parse("Абракадабра")
	require.Len(t, parses, 1)
	assert.Equal(t, "абракадабра", parses[0].NormalForm)
	assert.Equal(t, "UNKN", parses[0].Tag)
}

type emptyAnalyzer struct{}

func (emptyAnalyzer) Parse(string) []Parse { return nil }

func TestBest_EmptyParsesKeepWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "word", Best(emptyAnalyzer{}, "word"))
}

func TestWriteProfile_OpensAsPreferred(t *testing.T) {
	t.Parallel()

	rows, err := ReadProfile(bytes.NewBufferString(modernProfile), "ru.tsv")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	dir := t.TempDir()
	_, err = WriteProfile(dir, ProfileRussian, rows)
	require.NoError(t, err)

	r, err := OpenRussian(os.DirFS(dir), ProfileRussian, ProfileRussianOld, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, ProfileRussian, r.Profile())
	assert.Equal(t, "стать", Best(r, "стали"))
	assert.Equal(t, "бежать", Best(r, "бегу"))
}

func TestReadProfile_RejectsBadRows(t *testing.T) {
	t.Parallel()

	_, err := ReadProfile(bytes.NewBufferString("стали\tстать\tVERB\n"), "ru.tsv")
	assert.ErrorContains(t, err, "ru.tsv:1")

	_, err = ReadProfile(bytes.NewBufferString("стали\tстать\tVERB\thigh\n"), "ru.tsv")
	assert.ErrorContains(t, err, `score "high"`)
}
