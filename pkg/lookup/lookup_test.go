package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/lemma"
	"github.com/japaniel/wordlookup/pkg/morph"
	"github.com/japaniel/wordlookup/pkg/provider"
	"github.com/japaniel/wordlookup/pkg/provider/gdict"
	"github.com/japaniel/wordlookup/pkg/provider/local"
	"github.com/japaniel/wordlookup/pkg/provider/wiktionary"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory provider.Store keyed by source, lang and word.
type memStore struct {
	values  map[string]string
	sources []domain.Source
	err     error
}

func (m *memStore) Define(_ context.Context, word, lang, source string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if v, ok := m.values[source+"|"+lang+"|"+word]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%q: %w", word, domain.ErrWordNotFoundLocally)
}

func (m *memStore) Sources(_ context.Context, lang string) ([]domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Source
	for _, s := range m.sources {
		if lang == "" || s.Lang == lang {
			out = append(out, s)
		}
	}
	return out, nil
}

type staticLoader map[string]lemma.Table

func (l staticLoader) Load(lang string) (lemma.Table, error) {
	if t, ok := l[lang]; ok {
		return t, nil
	}
	return nil, errors.New("no table")
}

// recordingAnalyzer remembers the forms it was asked about.
type recordingAnalyzer struct {
	mu     sync.Mutex
	seen   []string
	lemmas map[string]string
}

func (a *recordingAnalyzer) Parse(word string) []morph.Parse {
	a.mu.Lock()
	a.seen = append(a.seen, word)
	a.mu.Unlock()
	if l, ok := a.lemmas[word]; ok {
		return []morph.Parse{{NormalForm: l, Score: 1}}
	}
	return []morph.Parse{{NormalForm: word}}
}

type recordingHistory struct {
	mu      sync.Mutex
	records []domain.LookupRecord
	err     error
}

func (h *recordingHistory) RecordLookup(_ context.Context, rec domain.LookupRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return h.err
}

type fixture struct {
	orch       *Orchestrator
	russian    *recordingAnalyzer
	store      *memStore
	wiktPaths  chan string
	wiktCalls  *atomic.Int32
	gdictCalls *atomic.Int32
}

func newFixture(t *testing.T, wiktBody string, opts ...Option) *fixture {
	t.Helper()
	logger := newTestLogger()

	var wiktCalls, gdictCalls atomic.Int32
	paths := make(chan string, 16)
	wikt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wiktCalls.Add(1)
		paths <- r.URL.Path
		w.Write([]byte(wiktBody))
	}))
	t.Cleanup(wikt.Close)
	gd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gdictCalls.Add(1)
		w.Write([]byte(`[{"word":"x","meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"d"}]}]}]`))
	}))
	t.Cleanup(gd.Close)

	store := &memStore{
		values: map[string]string{
			"MyDict|fi|talo": "house (local)",
		},
		sources: []domain.Source{
			{Name: "MyDict", Lang: "fi", Type: domain.SourceTypeDict},
			{Name: "FiFreq", Lang: "fi", Type: domain.SourceTypeFreq},
			{Name: "EnDict", Lang: "en", Type: domain.SourceTypeDict},
		},
	}

	russian := &recordingAnalyzer{lemmas: map[string]string{"бежать": "бежать", "бегу": "бежать"}}
	lemmatizer := lemma.NewDispatcher(staticLoader{
		"en": {"running": "run", "houses": "house"},
		"fi": {"talossa": "talo"},
	}, russian, logger)

	reg := provider.NewRegistry(local.NewClient(store, logger))
	reg.Register(domain.ProviderDescriptor{Name: provider.NameWiktionary, Kind: domain.KindRemoteStructuredDictionary},
		wiktionary.NewProvider(wikt.URL, time.Second, logger))
	reg.Register(domain.ProviderDescriptor{Name: provider.NameGoogleDictionary, Kind: domain.KindRemoteStructuredDictionary, Languages: gdict.AllowList()},
		gdict.NewProvider(gd.URL, time.Second, logger))

	return &fixture{
		orch:       NewOrchestrator(reg, lemmatizer, store, logger, opts...),
		russian:    russian,
		store:      store,
		wiktPaths:  paths,
		wiktCalls:  &wiktCalls,
		gdictCalls: &gdictCalls,
	}
}

const runBody = `{"en":[{"partOfSpeech":"Verb","language":"English","definitions":[
	{"definition":"To move <b>swiftly</b>."},
	{"definition":"To flee."}
]}]}`

func TestOrchestrator_LemmatizesBeforeBuildingURL(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	result, err := f.orch.Lookup(context.Background(), Request{Word: "running", Lang: "en", Lemmatize: true})
	require.NoError(t, err)

	assert.Equal(t, "/api/rest_v1/page/definition/run", <-f.wiktPaths)
	assert.Equal(t, "run", result.Word)
	assert.Equal(t, provider.NameWiktionary, result.Provider)
	assert.Equal(t, "<i>Verb</i><br>1. To move swiftly.<br>2. To flee.", result.Definition)
	require.Len(t, result.Definitions, 1)
	assert.Equal(t, []string{"To move swiftly.", "To flee."}, result.Definitions[0].Senses)
}

func TestOrchestrator_WithoutLemmatization(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	result, err := f.orch.Lookup(context.Background(), Request{Word: "running", Lang: "en", Provider: provider.NameWiktionary})
	require.NoError(t, err)
	assert.Equal(t, "/api/rest_v1/page/definition/running", <-f.wiktPaths)
	assert.Equal(t, "running", result.Word)
}

func TestOrchestrator_RemovesRussianAccentsBeforeLemmatizing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, `{"ru":[{"partOfSpeech":"Verb","definitions":[{"definition":"to run"}]}]}`)

	result, err := f.orch.Lookup(context.Background(), Request{Word: "бежа\u0301ть", Lang: "ru", Lemmatize: true})
	require.NoError(t, err)

	f.russian.mu.Lock()
	defer f.russian.mu.Unlock()
	require.Len(t, f.russian.seen, 1)
	assert.Equal(t, "бежать", f.russian.seen[0])
	assert.Equal(t, "бежать", result.Word)
}

func TestOrchestrator_StripsDecorations(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	result, err := f.orch.Lookup(context.Background(), Request{Word: "«running»,", Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t, "running", result.Word)
}

func TestOrchestrator_UnknownProviderUsesLocalStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	result, err := f.orch.Lookup(context.Background(), Request{Word: "talossa", Lang: "fi", Lemmatize: true, Provider: "MyDict"})
	require.NoError(t, err)

	assert.Equal(t, "talo", result.Word)
	assert.Equal(t, "house (local)", result.Definition)
	assert.Equal(t, "MyDict", result.Provider)
	assert.Equal(t, int32(0), f.wiktCalls.Load())
}

func TestOrchestrator_LocalMissIsLookupFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	_, err := f.orch.Lookup(context.Background(), Request{Word: "Koira", Lang: "fi", Provider: "MyDict"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLookupFailed)
	assert.ErrorIs(t, err, domain.ErrWordNotFoundLocally)

	var lf *domain.LookupFailedError
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, "Koira", lf.Word)
	assert.Equal(t, "MyDict", lf.Provider)
}

func TestOrchestrator_UnsupportedLanguageSkipsNetwork(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	_, err := f.orch.Lookup(context.Background(), Request{Word: "talo", Lang: "fi", Provider: provider.NameGoogleDictionary})
	assert.ErrorIs(t, err, domain.ErrLookupFailed)
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
	assert.Equal(t, int32(0), f.gdictCalls.Load())
}

func TestOrchestrator_ProviderFailureKeepsRawWord(t *testing.T) {
	t.Parallel()
	f := newFixture(t, `{"fr":[]}`)

	_, err := f.orch.Lookup(context.Background(), Request{Word: "(Running)", Lang: "en", Lemmatize: true})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	var lf *domain.LookupFailedError
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, "(Running)", lf.Word)
	assert.Equal(t, int32(1), f.wiktCalls.Load())
}

func TestOrchestrator_RecordsHistory(t *testing.T) {
	t.Parallel()
	h := &recordingHistory{}
	f := newFixture(t, runBody, WithHistory(h))

	_, err := f.orch.Lookup(context.Background(), Request{Word: "running", Lang: "en", Lemmatize: true})
	require.NoError(t, err)
	_, err = f.orch.Lookup(context.Background(), Request{Word: "nope", Lang: "fi", Provider: "MyDict"})
	require.Error(t, err)

	require.Len(t, h.records, 2)
	assert.Equal(t, domain.LookupRecord{
		Word:       "running",
		Definition: "<i>Verb</i><br>1. To move swiftly.<br>2. To flee.",
		Lang:       "en",
		Lemmatized: true,
		Provider:   provider.NameWiktionary,
		Success:    true,
	}, h.records[0])
	assert.Equal(t, domain.LookupRecord{Word: "nope", Lang: "fi", Provider: "MyDict"}, h.records[1])
}

func TestOrchestrator_HistoryErrorDoesNotFailLookup(t *testing.T) {
	t.Parallel()
	h := &recordingHistory{err: errors.New("database is locked")}
	f := newFixture(t, runBody, WithHistory(h))

	result, err := f.orch.Lookup(context.Background(), Request{Word: "run", Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t, "run", result.Word)
	assert.Len(t, h.records, 1)
}

func TestOrchestrator_Dictionaries(t *testing.T) {
	t.Parallel()
	f := newFixture(t, runBody)

	got, err := f.orch.Dictionaries(context.Background(), "fi")
	require.NoError(t, err)
	assert.Equal(t, []string{provider.NameWiktionary, "MyDict"}, got)

	got, err = f.orch.Dictionaries(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, []string{provider.NameWiktionary, provider.NameGoogleDictionary, "EnDict"}, got)
}

func TestFrequencyResolver_Resolve(t *testing.T) {
	t.Parallel()

	store := &memStore{values: map[string]string{
		"FiFreq|fi|talo":  "1234",
		"FiFreq|fi|koira": " 56 ",
		"FiFreq|fi|kissa": "many",
	}}
	lemmatizer := lemma.NewDispatcher(staticLoader{"fi": {"talossa": "talo"}}, nil, newTestLogger())
	r := NewFrequencyResolver(store, lemmatizer)
	ctx := context.Background()

	n, err := r.Resolve(ctx, "Talossa", "fi", true, "FiFreq")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)

	n, err = r.Resolve(ctx, "KOIRA", "fi", false, "FiFreq")
	require.NoError(t, err)
	assert.Equal(t, 56, n)

	_, err = r.Resolve(ctx, "talossa", "fi", false, "FiFreq")
	assert.ErrorIs(t, err, domain.ErrFrequencyNotFound)

	_, err = r.Resolve(ctx, "kissa", "fi", false, "FiFreq")
	assert.ErrorIs(t, err, domain.ErrFrequencyFormat)
}

func TestFrequencyResolver_UnknownWord(t *testing.T) {
	t.Parallel()

	r := NewFrequencyResolver(&memStore{}, lemma.NewDispatcher(staticLoader{}, nil, newTestLogger()))
	_, err := r.Resolve(context.Background(), "xyz123notaword", "en", true, "SomeFreqList")
	assert.ErrorIs(t, err, domain.ErrFrequencyNotFound)
}

func TestFrequencyResolver_StoreErrorPassesThrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	r := NewFrequencyResolver(&memStore{err: boom}, nil)
	_, err := r.Resolve(context.Background(), "talo", "fi", false, "FiFreq")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrFrequencyNotFound)
}

func TestFrequencyResolver_Lists(t *testing.T) {
	t.Parallel()

	store := &memStore{sources: []domain.Source{
		{Name: "MyDict", Lang: "fi", Type: domain.SourceTypeDict},
		{Name: "FiFreq", Lang: "fi", Type: domain.SourceTypeFreq},
		{Name: "EnFreq", Lang: "en", Type: domain.SourceTypeFreq},
	}}
	got, err := NewFrequencyResolver(store, nil).Lists(context.Background(), "fi")
	require.NoError(t, err)
	assert.Equal(t, []string{"FiFreq"}, got)
}
