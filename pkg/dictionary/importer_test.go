package dictionary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/store"
)

const jmdictContent = `
{
  "words": [
    {
      "id": "1",
      "kanji": [{"text": "犬", "common": true}],
      "kana": [{"text": "いぬ", "common": true}],
      "sense": [
        {"gloss": [{"text": "dog", "lang": "eng"}, {"text": "canine"}], "partOfSpeech": ["n"]},
        {"gloss": [{"text": "snoop"}], "partOfSpeech": ["n"]}
      ]
    },
    {
      "id": "2",
      "kanji": [{"text": "走る", "common": true}],
      "kana": [{"text": "はしる", "common": true}],
      "sense": [{"gloss": [{"text": "to run"}], "partOfSpeech": ["v5r", "vi"]}]
    },
    {
      "id": "3",
      "kanji": [],
      "kana": [{"text": "テスト", "common": true}],
      "sense": [{"gloss": [{"text": "test"}], "partOfSpeech": ["n", "vs"]}]
    }
  ]
}
`

func TestLoadJMdict(t *testing.T) {
	entries, err := LoadJMdict(strings.NewReader(jmdictContent))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = LoadJMdict(strings.NewReader(`[{"id":"9","kana":[{"text":"ねこ"}],"sense":[]}]`))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "9", entries[0].ID)

	_, err = LoadJMdict(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoadJMdictSimplified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jmdict.json")
	require.NoError(t, os.WriteFile(path, []byte(jmdictContent), 0o644))

	entries, err := LoadJMdictSimplified(path)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestJMdictEntries(t *testing.T) {
	entries, err := LoadJMdict(strings.NewReader(jmdictContent))
	require.NoError(t, err)

	got := map[string]string{}
	for _, e := range JMdictEntries(entries) {
		got[e.Word] = e.Value
	}

	assert.Equal(t, "<i>n</i><br>1. dog; canine<br>2. snoop", got["犬"])
	assert.Equal(t, got["犬"], got["いぬ"])
	assert.Equal(t, "<i>v5r, vi</i><br>1. to run", got["走る"])
	assert.Equal(t, "<i>n, vs</i><br>1. test", got["テスト"])
	assert.Equal(t, got["テスト"], got["てすと"])
	assert.Len(t, got, 6)
}

func TestImporter_ImportJMdictIntoStore(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	entries, err := LoadJMdict(strings.NewReader(jmdictContent))
	require.NoError(t, err)

	n, err := NewImporter(s, 2, newTestLogger()).ImportJMdict(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	def, err := s.Define(ctx, "走る", "ja", JMdictSourceName)
	require.NoError(t, err)
	assert.Equal(t, "<i>v5r, vi</i><br>1. to run", def)

	_, err = s.Define(ctx, "未知", "ja", JMdictSourceName)
	assert.ErrorIs(t, err, domain.ErrWordNotFoundLocally)

	sources, err := s.Sources(ctx, "ja")
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{{Name: JMdictSourceName, Lang: "ja", Type: domain.SourceTypeDict}}, sources)
}

type recordingSink struct {
	sources []domain.Source
	chunks  [][]domain.Entry
	failOn  int
}

func (r *recordingSink) AddSource(_ context.Context, src domain.Source) error {
	r.sources = append(r.sources, src)
	return nil
}

func (r *recordingSink) PutEntries(_ context.Context, _ string, entries []domain.Entry) error {
	if r.failOn > 0 && len(r.chunks)+1 == r.failOn {
		return errors.New("disk full")
	}
	r.chunks = append(r.chunks, append([]domain.Entry(nil), entries...))
	return nil
}

func TestImporter_ChunksAndNormalizesFrequencies(t *testing.T) {
	sink := &recordingSink{}
	im := NewImporter(sink, 2, newTestLogger())

	entries := []domain.Entry{{Word: "Talo", Value: " 1 "}, {Word: "koira", Value: "2"}, {Word: "KISSA", Value: "3"}}
	n, err := im.Import(context.Background(), domain.Source{Name: "FiFreq", Lang: "fi", Type: domain.SourceTypeFreq}, entries)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, sink.chunks, 2)
	assert.Equal(t, []domain.Entry{{Word: "talo", Value: "1"}, {Word: "koira", Value: "2"}}, sink.chunks[0])
	assert.Equal(t, []domain.Entry{{Word: "kissa", Value: "3"}}, sink.chunks[1])
}

func TestImporter_RejectsNonIntegerFrequencies(t *testing.T) {
	sink := &recordingSink{}
	_, err := NewImporter(sink, 10, newTestLogger()).Import(context.Background(),
		domain.Source{Name: "F", Lang: "fi", Type: domain.SourceTypeFreq},
		[]domain.Entry{{Word: "talo", Value: "often"}})
	assert.ErrorIs(t, err, domain.ErrFrequencyFormat)
	assert.Empty(t, sink.sources)
}

func TestImporter_StopsOnSinkError(t *testing.T) {
	sink := &recordingSink{failOn: 2}
	entries := []domain.Entry{{Word: "a", Value: "1"}, {Word: "b", Value: "2"}, {Word: "c", Value: "3"}}
	n, err := NewImporter(sink, 1, newTestLogger()).Import(context.Background(),
		domain.Source{Name: "D", Lang: "fi", Type: domain.SourceTypeDict}, entries)
	require.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestReadEntries(t *testing.T) {
	tsv, err := ReadEntries(strings.NewReader("# comment\ntalo\thouse\r\n\nkoira\tdog\tanimal\n"), FormatTSV)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{{Word: "talo", Value: "house"}, {Word: "koira", Value: "dog\tanimal"}}, tsv)

	_, err = ReadEntries(strings.NewReader("no tab here\n"), FormatTSV)
	assert.Error(t, err)

	js, err := ReadEntries(strings.NewReader(`{"talo": "house", "koira": 42}`), FormatJSON)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Entry{{Word: "talo", Value: "house"}, {Word: "koira", Value: "42"}}, js)

	_, err = ReadEntries(strings.NewReader(`{"talo": true}`), FormatJSON)
	assert.Error(t, err)

	list, err := ReadEntries(strings.NewReader("the\nof\n\nthe\nand\n"), FormatList)
	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{{Word: "the", Value: "1"}, {Word: "of", Value: "2"}, {Word: "and", Value: "4"}}, list)

	_, err = ReadEntries(strings.NewReader(""), Format("xml"))
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("dict.JSON", domain.SourceTypeDict))
	assert.Equal(t, FormatTSV, FormatForPath("freq.tsv", domain.SourceTypeFreq))
	assert.Equal(t, FormatList, FormatForPath("freq.txt", domain.SourceTypeFreq))
	assert.Equal(t, FormatTSV, FormatForPath("dict.txt", domain.SourceTypeDict))

	f, err := ParseFormat("LIST")
	require.NoError(t, err)
	assert.Equal(t, FormatList, f)
	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"ア", "あ"},
		{"カ", "か"},
		{"ガ", "が"},
		{"パ", "ぱ"},
		{"ン", "ん"},
		{"ー", "ー"},
		{"abc", "abc"},
		{"あいう", "あいう"},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.in); got != tt.out {
			t.Errorf("ToHiragana(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}
