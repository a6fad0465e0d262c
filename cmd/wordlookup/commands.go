package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/japaniel/wordlookup/pkg/batch"
	"github.com/japaniel/wordlookup/pkg/dictionary"
	"github.com/japaniel/wordlookup/pkg/domain"
	"github.com/japaniel/wordlookup/pkg/lemma"
	"github.com/japaniel/wordlookup/pkg/lookup"
	"github.com/japaniel/wordlookup/pkg/morph"
	"github.com/japaniel/wordlookup/pkg/resource"
	"github.com/japaniel/wordlookup/pkg/store"
)

// noDefinition stands in for the definition of a word no provider could
// answer in batch output.
const noDefinition = "no definition found"

// frequencyMissing is reported for words absent from the frequency list.
const frequencyMissing = -1

func (a *app) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// lookupOptions are the per-invocation lookup settings shared by the lookup
// and batch commands.
type lookupOptions struct {
	lang          string
	provider      string
	second        string
	target        string
	lemmatize     bool
	freqList      string
	freqLemmatize bool
}

func (a *app) lookupFlags(fs *pflag.FlagSet) func() (lookupOptions, error) {
	lc := a.cfg.Lookup
	langName := fs.StringP("lang", "l", "", "language name or ISO code (default from config)")
	prov := fs.StringP("provider", "p", lc.Provider, "definition provider or local dictionary name")
	second := fs.String("second-provider", lc.SecondProvider, "optional second definition provider")
	target := fs.StringP("target", "t", lc.TranslateTarget, "display language for Google translate")
	direct := fs.Bool("direct", lc.Direct, "look words up as given, without lemmatizing")
	freqList := fs.String("freq-list", lc.FrequencyList, "frequency list to report ranks from")
	freqDirect := fs.Bool("freq-direct", lc.FreqDirect, "resolve frequencies without lemmatizing")

	return func() (lookupOptions, error) {
		code, err := a.language(*langName)
		if err != nil {
			return lookupOptions{}, fmt.Errorf("%w: %v", errUsage, err)
		}
		return lookupOptions{
			lang:          code,
			provider:      *prov,
			second:        *second,
			target:        *target,
			lemmatize:     !*direct,
			freqList:      *freqList,
			freqLemmatize: !*freqDirect,
		}, nil
	}
}

// wordResult is the outcome of looking one word up.
type wordResult struct {
	Word             string `json:"word"`
	Key              string `json:"key,omitempty"`
	Provider         string `json:"provider,omitempty"`
	Definition       string `json:"definition,omitempty"`
	SecondProvider   string `json:"second_provider,omitempty"`
	SecondDefinition string `json:"second_definition,omitempty"`
	Frequency        *int   `json:"frequency,omitempty"`
	Error            string `json:"error,omitempty"`

	err error
}

// lookupWord runs the primary lookup, then the optional second provider and
// frequency list. Only a primary failure sets err; the second provider is
// best effort.
func (a *app) lookupWord(ctx context.Context, orch *lookup.Orchestrator, freq *lookup.FrequencyResolver, word string, o lookupOptions) wordResult {
	res := wordResult{Word: word}

	got, err := orch.Lookup(ctx, lookup.Request{
		Word:      word,
		Lang:      o.lang,
		Lemmatize: o.lemmatize,
		Provider:  o.provider,
		Target:    o.target,
	})
	if err != nil {
		res.err = err
		res.Error = err.Error()
	} else {
		res.Key = got.Word
		res.Provider = got.Provider
		res.Definition = got.Definition
	}

	if o.second != "" {
		got2, err := orch.Lookup(ctx, lookup.Request{
			Word:      word,
			Lang:      o.lang,
			Lemmatize: o.lemmatize,
			Provider:  o.second,
			Target:    o.target,
		})
		if err != nil {
			a.log.WarnContext(ctx, "second provider failed", slog.String("word", word), slog.String("error", err.Error()))
		} else {
			res.SecondProvider = got2.Provider
			res.SecondDefinition = got2.Definition
		}
	}

	if o.freqList != "" {
		n, err := freq.Resolve(ctx, word, o.lang, o.freqLemmatize, o.freqList)
		if err != nil {
			if !errors.Is(err, domain.ErrFrequencyNotFound) {
				a.log.WarnContext(ctx, "frequency lookup failed", slog.String("word", word), slog.String("error", err.Error()))
			}
			n = frequencyMissing
		}
		res.Frequency = &n
	}
	return res
}

var markup = strings.NewReplacer("<br>", "\n", "<i>", "", "</i>", "")

func plain(def string) string { return markup.Replace(def) }

func runLookup(ctx context.Context, a *app, args []string) error {
	fs := a.flags("lookup")
	options := a.lookupFlags(fs)
	asJSON := fs.Bool("json", false, "print one JSON object per word")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: no words given", errUsage)
	}
	o, err := options()
	if err != nil {
		return err
	}

	b, err := a.backend(ctx)
	if err != nil {
		return err
	}
	var history lookup.History
	if !a.cfg.Lookup.NoHistory {
		history = b
	}
	orch, freq, err := a.lookupServices(ctx, history)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.out)
	var errs []error
	for _, word := range fs.Args() {
		res := a.lookupWord(ctx, orch, freq, word, o)
		if res.err != nil {
			errs = append(errs, res.err)
		}
		if *asJSON {
			if err := enc.Encode(res); err != nil {
				return err
			}
			continue
		}
		a.printResult(res)
	}
	return errors.Join(errs...)
}

func (a *app) printResult(res wordResult) {
	if res.err != nil {
		fmt.Fprintf(a.out, "%s: %s\n", res.Word, noDefinition)
	} else {
		fmt.Fprintf(a.out, "%s (%s) [%s]\n%s\n", res.Word, res.Key, res.Provider, plain(res.Definition))
	}
	if res.SecondProvider != "" {
		fmt.Fprintf(a.out, "[%s]\n%s\n", res.SecondProvider, plain(res.SecondDefinition))
	}
	if res.Frequency != nil {
		fmt.Fprintf(a.out, "frequency: %d\n", *res.Frequency)
	}
}

func runFreq(ctx context.Context, a *app, args []string) error {
	fs := a.flags("freq")
	langName := fs.StringP("lang", "l", "", "language name or ISO code (default from config)")
	list := fs.String("list", a.cfg.Lookup.FrequencyList, "frequency list name")
	direct := fs.Bool("direct", a.cfg.Lookup.FreqDirect, "resolve words as given, without lemmatizing")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: no words given", errUsage)
	}
	if *list == "" {
		return fmt.Errorf("%w: --list is required", errUsage)
	}
	code, err := a.language(*langName)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	_, freq, err := a.lookupServices(ctx, nil)
	if err != nil {
		return err
	}
	for _, word := range fs.Args() {
		n, err := freq.Resolve(ctx, word, code, !*direct, *list)
		if errors.Is(err, domain.ErrFrequencyNotFound) {
			n = frequencyMissing
		} else if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\t%d\n", word, n)
	}
	return nil
}

func tsvField(s string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}

func runBatch(ctx context.Context, a *app, args []string) error {
	fs := a.flags("batch")
	options := a.lookupFlags(fs)
	workers := fs.IntP("workers", "w", a.cfg.Lookup.BatchWorkers, "concurrent lookups")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	o, err := options()
	if err != nil {
		return err
	}

	var words []string
	sc := bufio.NewScanner(a.stdin)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read words: %w", err)
	}

	b, err := a.backend(ctx)
	if err != nil {
		return err
	}
	var history lookup.History
	if !a.cfg.Lookup.NoHistory {
		history = b
		if s, ok := b.(*store.SQLite); ok {
			bw := store.NewBatchWriter(s.DB(), 64, time.Second)
			defer func() {
				if err := bw.Close(); err != nil {
					a.log.Warn("flush lookup history", slog.String("error", err.Error()))
				}
			}()
			history = store.NewBatchedHistory(bw)
		}
	}
	orch, freq, err := a.lookupServices(ctx, history)
	if err != nil {
		return err
	}

	results := make([]wordResult, len(words))
	pool := batch.NewWorkerPool(*workers, 0)
	pool.OnError = func(err error) {
		a.log.Warn("batch lookup failed", slog.String("error", err.Error()))
	}
	pool.Start(ctx)
	for i, word := range words {
		i, word := i, word
		err := pool.Submit(func(ctx context.Context) error {
			results[i] = a.lookupWord(ctx, orch, freq, word, o)
			return results[i].err
		})
		if err != nil {
			pool.Close()
			return err
		}
	}
	pool.Close()
	if err := ctx.Err(); err != nil {
		return err
	}

	w := bufio.NewWriter(a.out)
	for i, res := range results {
		def := res.Definition
		if res.err != nil || res.Word == "" {
			def = noDefinition
		}
		freqField := ""
		if res.Frequency != nil {
			freqField = fmt.Sprint(*res.Frequency)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", words[i], tsvField(def), tsvField(res.SecondDefinition), freqField)
	}
	return w.Flush()
}

func runSources(ctx context.Context, a *app, args []string) error {
	fs := a.flags("sources")
	langName := fs.StringP("lang", "l", "", "list the providers usable for this language")
	del := fs.String("delete", "", "delete the named source and its entries")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	b, err := a.backend(ctx)
	if err != nil {
		return err
	}

	if *del != "" {
		ok, err := b.RemoveSource(ctx, *del)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no source named %q", *del)
		}
		fmt.Fprintf(a.out, "deleted %s\n", *del)
		return nil
	}

	if *langName == "" {
		sources, err := b.Sources(ctx, "")
		if err != nil {
			return err
		}
		for _, s := range sources {
			fmt.Fprintf(a.out, "%s\t%s\t%s\n", s.Name, s.Lang, s.Type)
		}
		return nil
	}

	code, err := a.language(*langName)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	dicts, err := lookup.NewOrchestrator(a.registry(b), nil, b, a.log).Dictionaries(ctx, code)
	if err != nil {
		return err
	}
	lists, err := lookup.NewFrequencyResolver(b, nil).Lists(ctx, code)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "dictionaries:")
	for _, d := range dicts {
		fmt.Fprintf(a.out, "  %s\n", d)
	}
	fmt.Fprintln(a.out, "frequency lists:")
	for _, l := range lists {
		fmt.Fprintf(a.out, "  %s\n", l)
	}
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := a.flags("import")
	name := fs.String("name", "", "source name")
	langName := fs.StringP("lang", "l", "", "language name or ISO code (default from config)")
	typ := fs.String("type", domain.SourceTypeDict, "source type: dict or freq")
	format := fs.String("format", "", "file format: tsv, json or list (default from the file extension)")
	batchSize := fs.Int("batch-size", 1000, "entries written per transaction")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import takes exactly one file", errUsage)
	}
	if *name == "" {
		return fmt.Errorf("%w: --name is required", errUsage)
	}
	if *typ != domain.SourceTypeDict && *typ != domain.SourceTypeFreq {
		return fmt.Errorf("%w: --type must be %s or %s", errUsage, domain.SourceTypeDict, domain.SourceTypeFreq)
	}
	code, err := a.language(*langName)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	path := fs.Arg(0)
	f := dictionary.FormatForPath(path, *typ)
	if *format != "" {
		if f, err = dictionary.ParseFormat(*format); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	entries, err := dictionary.ReadEntries(file, f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	b, err := a.backend(ctx)
	if err != nil {
		return err
	}
	n, err := dictionary.NewImporter(b, *batchSize, a.log).Import(ctx, domain.Source{Name: *name, Lang: code, Type: *typ}, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d entries into %s\n", n, *name)
	return nil
}

func runImportJMdict(ctx context.Context, a *app, args []string) error {
	fs := a.flags("import-jmdict")
	path := fs.String("path", "jmdict-eng-common.json", "JMdict-Simplified JSON file")
	noDownload := fs.Bool("no-download", false, "fail instead of downloading a missing file")
	releaseURL := fs.String("release-url", dictionary.DefaultReleaseURL, "GitHub release API URL to download from")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if !*noDownload {
		d := dictionary.NewDownloader(a.log)
		d.ReleaseURL = *releaseURL
		if err := d.Ensure(ctx, *path); err != nil {
			return err
		}
	}

	start := time.Now()
	entries, err := dictionary.LoadJMdictSimplified(*path)
	if err != nil {
		return err
	}
	a.log.Info("dictionary loaded", slog.Int("entries", len(entries)), slog.Duration("took", time.Since(start)))

	b, err := a.backend(ctx)
	if err != nil {
		return err
	}
	n, err := dictionary.NewImporter(b, 0, a.log).ImportJMdict(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d entries into %s\n", n, dictionary.JMdictSourceName)
	return nil
}

// runImportLemma installs a lemma table into tables_dir or a Russian
// analyzer profile into morph_dir.
func runImportLemma(ctx context.Context, a *app, args []string) error {
	fs := a.flags("import-lemma")
	langName := fs.StringP("lang", "l", "", "table language name or ISO code (default from config)")
	lemmaFirst := fs.Bool("lemma-first", false, "rows are lemma<TAB>form, as in lemmatization-lists")
	profile := fs.String("profile", "", "install a Russian analyzer profile (ru or ru-old) instead of a table")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import-lemma takes exactly one file or URL", errUsage)
	}
	src := fs.Arg(0)

	var code string
	switch *profile {
	case "":
		var err error
		if code, err = a.language(*langName); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		if !slices.Contains(lemma.TableLanguages, code) {
			return fmt.Errorf("%w: no lemma table support for %s", errUsage, code)
		}
	case morph.ProfileRussian, morph.ProfileRussianOld:
	default:
		return fmt.Errorf("%w: --profile must be %s or %s", errUsage, morph.ProfileRussian, morph.ProfileRussianOld)
	}

	r, err := resource.Open(ctx, &http.Client{}, src)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		path string
		n    int
	)
	if *profile != "" {
		rows, err := morph.ReadProfile(r, src)
		if err != nil {
			return err
		}
		if path, err = morph.WriteProfile(a.cfg.Lemma.MorphDir, *profile, rows); err != nil {
			return err
		}
		n = len(rows)
	} else {
		table, err := lemma.ReadList(r, src, *lemmaFirst)
		if err != nil {
			return err
		}
		if path, err = lemma.WriteTable(a.cfg.Lemma.TablesDir, code, table); err != nil {
			return err
		}
		n = len(table)
	}
	a.log.Info("lemma data installed", slog.String("path", path), slog.Int("rows", n))
	fmt.Fprintf(a.out, "imported %d forms into %s\n", n, path)
	return nil
}

func runLanguages(_ context.Context, a *app, args []string) error {
	fs := a.flags("languages")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	for _, e := range a.langs.Entries() {
		fmt.Fprintf(a.out, "%s\t%s\n", e.Name, e.Code)
	}
	return nil
}

func runStats(ctx context.Context, a *app, args []string) error {
	fs := a.flags("stats")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	b, err := a.backend(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	n, err := b.CountLookupsSince(ctx, midnight)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "lookups today: %d\n", n)
	return nil
}
