package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/japaniel/wordlookup/pkg/config"
	"github.com/japaniel/wordlookup/pkg/dictionary"
	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/lang"
	"github.com/japaniel/wordlookup/pkg/lemma"
	"github.com/japaniel/wordlookup/pkg/lookup"
	"github.com/japaniel/wordlookup/pkg/morph"
	"github.com/japaniel/wordlookup/pkg/provider"
	"github.com/japaniel/wordlookup/pkg/provider/gdict"
	"github.com/japaniel/wordlookup/pkg/provider/local"
	"github.com/japaniel/wordlookup/pkg/provider/translate"
	"github.com/japaniel/wordlookup/pkg/provider/wiktionary"
	"github.com/japaniel/wordlookup/pkg/store"
	"github.com/japaniel/wordlookup/pkg/store/redisstore"
)

// backend is what the CLI needs from a local store driver.
type backend interface {
	provider.Store
	dictionary.Sink
	lookup.History
	RemoveSource(ctx context.Context, name string) (bool, error)
	CountLookupsSince(ctx context.Context, t time.Time) (int, error)
	Close() error
}

var (
	_ backend = (*store.SQLite)(nil)
	_ backend = (*redisstore.Store)(nil)
)

// app holds the configuration and the lazily built components shared by the
// subcommands.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	langs  *lang.Registry
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer

	store      backend
	lemmatizer *lemma.Dispatcher
	closers    []func() error
}

func newApp(cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		cfg:    cfg,
		log:    logger,
		langs:  lang.Default(),
		stdin:  stdin,
		out:    stdout,
		errOut: stderr,
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}

// language accepts a display name ("Russian") or an ISO code ("ru"). An
// empty value selects the configured language.
func (a *app) language(s string) (string, error) {
	if s == "" {
		s = a.cfg.Lookup.Language
	}
	if code, err := a.langs.NameToCode(s); err == nil {
		return code, nil
	}
	if _, err := a.langs.CodeToName(s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownLanguage, s)
}

// backend opens the configured local store on first use.
func (a *app) backend(ctx context.Context) (backend, error) {
	if a.store != nil {
		return a.store, nil
	}

	var b backend
	switch a.cfg.Store.Driver {
	case config.DriverRedis:
		s, err := redisstore.Open(ctx, a.cfg.Store.RedisAddr, a.cfg.Store.RedisPassword, a.cfg.Store.RedisDB)
		if err != nil {
			return nil, err
		}
		b = s
	default:
		s, err := store.Open(a.cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		b = s
	}
	a.log.Debug("local store opened", slog.String("driver", a.cfg.Store.Driver))

	a.store = b
	a.closers = append(a.closers, b.Close)
	return b, nil
}

// lemmatizerFor builds the lemma dispatcher on first use. Missing analyzer
// resources only disable the affected language.
func (a *app) lemmatizerFor() *lemma.Dispatcher {
	if a.lemmatizer != nil {
		return a.lemmatizer
	}
	lc := a.cfg.Lemma

	var russian morph.Analyzer
	ru, err := morph.OpenRussian(os.DirFS(lc.MorphDir), lc.RussianProfile, lc.RussianFallback, a.log)
	if err != nil {
		a.log.Warn("russian analyzer unavailable", slog.String("dir", lc.MorphDir), slog.String("error", err.Error()))
	} else {
		russian = ru
	}

	var opts []lemma.Option
	if lc.Japanese {
		ja, err := morph.NewJapanese()
		if err != nil {
			a.log.Warn("japanese analyzer unavailable", slog.String("error", err.Error()))
		} else {
			opts = append(opts, lemma.WithJapanese(ja))
		}
	}

	a.lemmatizer = lemma.NewDispatcher(lemma.FSLoader{FS: os.DirFS(lc.TablesDir)}, russian, a.log, opts...)
	return a.lemmatizer
}

// registry registers the built-in providers in the order they are offered
// to the user. Wiktionary serves every catalog language.
func (a *app) registry(b backend) *provider.Registry {
	lc := a.cfg.Lookup
	catalog := make(map[string]struct{})
	for _, code := range a.langs.Codes() {
		catalog[code] = struct{}{}
	}

	reg := provider.NewRegistry(local.NewClient(b, a.log))
	reg.Register(domain.ProviderDescriptor{
		Name:      provider.NameWiktionary,
		Kind:      domain.KindRemoteStructuredDictionary,
		Languages: catalog,
	}, wiktionary.NewProvider(lc.WiktionaryURL, lc.Timeout, a.log))
	reg.Register(domain.ProviderDescriptor{
		Name: provider.NameGoogleTranslate,
		Kind: domain.KindRemoteTranslation,
	}, translate.NewProvider(lc.TranslateURL, lc.Timeout, a.log))
	reg.Register(domain.ProviderDescriptor{
		Name:      provider.NameGoogleDictionary,
		Kind:      domain.KindRemoteStructuredDictionary,
		Languages: gdict.AllowList(),
	}, gdict.NewProvider(lc.GoogleDictURL, lc.Timeout, a.log))
	return reg
}

// lookupServices builds an orchestrator and a frequency resolver over the
// local store. history may be nil.
func (a *app) lookupServices(ctx context.Context, history lookup.History) (*lookup.Orchestrator, *lookup.FrequencyResolver, error) {
	b, err := a.backend(ctx)
	if err != nil {
		return nil, nil, err
	}
	lem := a.lemmatizerFor()

	var opts []lookup.Option
	if history != nil {
		opts = append(opts, lookup.WithHistory(history))
	}
	orch := lookup.NewOrchestrator(a.registry(b), lem, b, a.log, opts...)
	return orch, lookup.NewFrequencyResolver(b, lem), nil
}
