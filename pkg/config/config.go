// Package config loads the CLI configuration from YAML and the environment.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Lookup LookupConfig `yaml:"lookup"`
	Lemma  LemmaConfig  `yaml:"lemma"`
	Store  StoreConfig  `yaml:"store"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WORDLOOKUP_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"WORDLOOKUP_LOG_FORMAT" env-default:"text"`
}

// LookupConfig holds provider endpoints and lookup defaults. Boolean
// switches default to false: cleanenv overwrites a false value with its
// env-default. Direct skips lemmatization of looked-up words, FreqDirect of
// words whose frequency is resolved.
type LookupConfig struct {
	Timeout          time.Duration `yaml:"timeout"           env:"WORDLOOKUP_LOOKUP_TIMEOUT"        env-default:"4s"`
	WiktionaryURL    string        `yaml:"wiktionary_url"    env:"WORDLOOKUP_WIKTIONARY_URL"        env-default:"https://en.wiktionary.org"`
	GoogleDictURL    string        `yaml:"google_dict_url"   env:"WORDLOOKUP_GOOGLE_DICT_URL"       env-default:"https://api.dictionaryapi.dev"`
	TranslateURL     string        `yaml:"translate_url"     env:"WORDLOOKUP_TRANSLATE_URL"         env-default:"https://translate.googleapis.com"`
	Language         string        `yaml:"language"          env:"WORDLOOKUP_LANGUAGE"              env-default:"English"`
	Provider         string        `yaml:"provider"          env:"WORDLOOKUP_PROVIDER"              env-default:"Wiktionary (English)"`
	SecondProvider   string        `yaml:"second_provider"   env:"WORDLOOKUP_SECOND_PROVIDER"`
	TranslateTarget  string        `yaml:"translate_target"  env:"WORDLOOKUP_TRANSLATE_TARGET"      env-default:"English"`
	Direct           bool          `yaml:"direct"            env:"WORDLOOKUP_DIRECT"`
	FreqDirect       bool          `yaml:"freq_direct"       env:"WORDLOOKUP_FREQ_DIRECT"`
	FrequencyList    string        `yaml:"frequency_list"    env:"WORDLOOKUP_FREQUENCY_LIST"`
	BatchWorkers     int           `yaml:"batch_workers"     env:"WORDLOOKUP_BATCH_WORKERS"         env-default:"4"`
	NoHistory        bool          `yaml:"no_history"        env:"WORDLOOKUP_NO_HISTORY"`
}

// LemmaConfig locates lemmatization resources. Japanese lemmatization is
// opt-in; without it Japanese words are looked up as written.
type LemmaConfig struct {
	TablesDir       string `yaml:"tables_dir"       env:"WORDLOOKUP_LEMMA_TABLES_DIR"   env-default:"./data/lemma"`
	MorphDir        string `yaml:"morph_dir"        env:"WORDLOOKUP_MORPH_DIR"          env-default:"./data/morph"`
	RussianProfile  string `yaml:"russian_profile"  env:"WORDLOOKUP_RU_PROFILE"         env-default:"ru"`
	RussianFallback string `yaml:"russian_fallback" env:"WORDLOOKUP_RU_FALLBACK"        env-default:"ru-old"`
	Japanese        bool   `yaml:"japanese"         env:"WORDLOOKUP_LEMMA_JAPANESE"`
}

// StoreConfig selects and configures the local store.
type StoreConfig struct {
	Driver        string `yaml:"driver"         env:"WORDLOOKUP_STORE_DRIVER"  env-default:"sqlite"`
	SQLitePath    string `yaml:"sqlite_path"    env:"WORDLOOKUP_SQLITE_PATH"   env-default:"./wordlookup.db"`
	RedisAddr     string `yaml:"redis_addr"     env:"WORDLOOKUP_REDIS_ADDR"    env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"WORDLOOKUP_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"WORDLOOKUP_REDIS_DB"      env-default:"0"`
}

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)
