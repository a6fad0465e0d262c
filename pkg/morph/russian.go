package morph

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/japaniel/wordlookup/pkg/resource"
)

// Resource profiles for the Russian analyzer. The modern profile follows
// current orthography; the old one is the pre-reform dictionary some
// installations still ship.
const (
	ProfileRussian    = "ru"
	ProfileRussianOld = "ru-old"
)

// ProfileFile is the file name a profile is stored under.
func ProfileFile(profile string) string { return profile + ".tsv.gz" }

// Russian is a dictionary-backed analyzer. Each profile row is
// "form<TAB>normal form<TAB>tag<TAB>score".
type Russian struct {
	profile string
	forms   map[string][]Parse
}

// OpenRussian loads the preferred profile, or the fallback when the preferred
// one is not installed. Call it once at startup and share the result.
func OpenRussian(fsys fs.FS, preferred, fallback string, logger *slog.Logger) (*Russian, error) {
	r, err := loadRussian(fsys, preferred)
	if err == nil {
		return r, nil
	}
	if fallback == "" || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	logger.Warn("russian profile unavailable, using fallback",
		slog.String("profile", preferred),
		slog.String("fallback", fallback),
	)
	return loadRussian(fsys, fallback)
}

func loadRussian(fsys fs.FS, profile string) (*Russian, error) {
	forms := make(map[string][]Parse)
	err := resource.ReadTSV(fsys, ProfileFile(profile), 4, func(f []string) error {
		score, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return fmt.Errorf("score %q: %w", f[3], err)
		}
		form := strings.ToLower(f[0])
		forms[form] = append(forms[form], Parse{NormalForm: f[1], Tag: f[2], Score: score})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("morph: load profile %s: %w", profile, err)
	}
	for _, parses := range forms {
		sort.SliceStable(parses, func(i, j int) bool { return parses[i].Score > parses[j].Score })
	}
	return &Russian{profile: profile, forms: forms}, nil
}

// Profile reports which profile was loaded.
func (r *Russian) Profile() string { return r.profile }

// Parse returns the known readings of word, best first. Unknown words yield a
// single lowercase reading tagged UNKN.
func (r *Russian) Parse(word string) []Parse {
	key := strings.ToLower(word)
	if parses, ok := r.forms[key]; ok {
		out := make([]Parse, len(parses))
		copy(out, parses)
		return out
	}
	return []Parse{{NormalForm: key, Tag: "UNKN"}}
}

// ReadProfile checks profile rows from r and returns them in file order.
// Every row needs four columns and a numeric score.
func ReadProfile(r io.Reader, name string) ([][]string, error) {
	var rows [][]string
	err := resource.ScanTSV(r, name, 4, func(f []string) error {
		if _, err := strconv.ParseFloat(f[3], 64); err != nil {
			return fmt.Errorf("score %q: %w", f[3], err)
		}
		rows = append(rows, f[:4])
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("morph: read profile: %w", err)
	}
	return rows, nil
}

// WriteProfile installs rows as profile under dir, where OpenRussian finds
// it, and returns the file path.
func WriteProfile(dir, profile string, rows [][]string) (string, error) {
	path := filepath.Join(dir, ProfileFile(profile))
	if err := resource.WriteTSV(path, rows); err != nil {
		return "", fmt.Errorf("morph: write profile %s: %w", profile, err)
	}
	return path, nil
}
