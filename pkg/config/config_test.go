package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
log:
  level: "debug"
  format: "json"

lookup:
  timeout: "2s"
  language: "Finnish"
  provider: "Google translate"
  second_provider: "MyDict"
  translate_target: "German"
  direct: true
  frequency_list: "FiFreq"
  batch_workers: 8

lemma:
  tables_dir: "/opt/lemma"
  russian_profile: "ru-old"
  japanese: true

store:
  driver: "redis"
  redis_addr: "redis:6379"
  redis_db: 2
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv(PathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 2*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "Finnish", cfg.Lookup.Language)
	assert.Equal(t, "Google translate", cfg.Lookup.Provider)
	assert.Equal(t, "MyDict", cfg.Lookup.SecondProvider)
	assert.Equal(t, "German", cfg.Lookup.TranslateTarget)
	assert.True(t, cfg.Lookup.Direct)
	assert.Equal(t, "FiFreq", cfg.Lookup.FrequencyList)
	assert.Equal(t, 8, cfg.Lookup.BatchWorkers)
	assert.Equal(t, "/opt/lemma", cfg.Lemma.TablesDir)
	assert.Equal(t, "ru-old", cfg.Lemma.RussianProfile)
	assert.True(t, cfg.Lemma.Japanese)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2, cfg.Store.RedisDB)

	// Unset keys keep their defaults.
	assert.Equal(t, "https://en.wiktionary.org", cfg.Lookup.WiktionaryURL)
	assert.Equal(t, "./data/morph", cfg.Lemma.MorphDir)
	assert.Equal(t, "ru-old", cfg.Lemma.RussianFallback)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 4*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "English", cfg.Lookup.Language)
	assert.Equal(t, "Wiktionary (English)", cfg.Lookup.Provider)
	assert.Equal(t, "English", cfg.Lookup.TranslateTarget)
	assert.False(t, cfg.Lookup.Direct)
	assert.False(t, cfg.Lookup.FreqDirect)
	assert.False(t, cfg.Lookup.NoHistory)
	assert.Equal(t, "https://api.dictionaryapi.dev", cfg.Lookup.GoogleDictURL)
	assert.Equal(t, "https://translate.googleapis.com", cfg.Lookup.TranslateURL)
	assert.Equal(t, "ru", cfg.Lemma.RussianProfile)
	assert.Equal(t, "ru-old", cfg.Lemma.RussianFallback)
	assert.False(t, cfg.Lemma.Japanese)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "./wordlookup.db", cfg.Store.SQLitePath)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv(PathEnv, path)
	t.Setenv("WORDLOOKUP_LOOKUP_TIMEOUT", "750ms")
	t.Setenv("WORDLOOKUP_LANGUAGE", "Russian")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Lookup.Timeout)
	assert.Equal(t, "Russian", cfg.Lookup.Language)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv(PathEnv, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad log format":   "log:\n  format: xml\n",
		"negative timeout": "lookup:\n  timeout: -1s\n",
		"negative workers": "lookup:\n  batch_workers: -2\n",
		"bad driver":       "store:\n  driver: postgres\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeYAML(t, t.TempDir(), content))
			assert.Error(t, err)
		})
	}
}
