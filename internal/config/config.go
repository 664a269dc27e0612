// Package config provides functionality for managing configuration options
// for the application using command-line flags, an optional config file,
// a .env file and environment variables, applied in that order.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. MENUFACIL_ADDR.
const EnvPrefix = "MENUFACIL"

// Duration is a time.Duration read from text such as "72h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"addr" yaml:"addr" envconfig:"ADDR"`

	// Driver selects the key-value backend: memory, file, postgres or sqlite.
	Driver string `json:"driver" yaml:"driver" envconfig:"DRIVER"`

	// DatabaseDSN holds the Postgres connection string or the SQLite path.
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn" envconfig:"DATABASE_DSN"`

	// StorageFile is the JSON file used by the file driver.
	StorageFile string `json:"storage_file" yaml:"storage_file" envconfig:"STORAGE_FILE"`

	LogLevel string `json:"log_level" yaml:"log_level" envconfig:"LOG_LEVEL"`

	// ExpiryWindow is how far ahead the expiry watcher looks.
	ExpiryWindow Duration `json:"expiry_window" yaml:"expiry_window" envconfig:"EXPIRY_WINDOW"`
	// ExpiryInterval is how often the expiry watcher runs.
	ExpiryInterval Duration `json:"expiry_interval" yaml:"expiry_interval" envconfig:"EXPIRY_INTERVAL"`

	// FoldAccentsInShoppingCheck makes plan generation ignore accents when
	// deciding whether an ingredient still has to be bought.
	FoldAccentsInShoppingCheck bool `json:"fold_accents_in_shopping_check" yaml:"fold_accents_in_shopping_check" envconfig:"FOLD_ACCENTS"`

	// Seed fixes the planner's random source; zero seeds from the clock.
	Seed uint64 `json:"seed" yaml:"seed" envconfig:"SEED"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" envconfig:"CORS_ORIGINS"`

	// Config is the path to the Config file (.json, .yaml or .yml).
	Config string `json:"-" yaml:"-" ignored:"true"`
}

// Window returns ExpiryWindow as a time.Duration.
func (o *Options) Window() time.Duration { return time.Duration(o.ExpiryWindow) }

// Interval returns ExpiryInterval as a time.Duration.
func (o *Options) Interval() time.Duration { return time.Duration(o.ExpiryInterval) }

// Load builds Options from args and the environment.
func Load(args []string) (*Options, error) {
	options := &Options{}

	fset := flag.NewFlagSet("menufacil", flag.ContinueOnError)
	fset.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	fset.StringVar(&options.Driver, "driver", "file", "storage driver: memory, file, postgres, sqlite")
	fset.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fset.StringVar(&options.StorageFile, "f", "menufacil.json", "storage file for the file driver")
	fset.StringVar(&options.LogLevel, "l", "Info", "log level")
	fset.DurationVar((*time.Duration)(&options.ExpiryWindow), "expiry-window", 72*time.Hour, "warn about ingredients expiring within this window")
	fset.DurationVar((*time.Duration)(&options.ExpiryInterval), "expiry-interval", time.Hour, "how often to check expiry dates")
	fset.BoolVar(&options.FoldAccentsInShoppingCheck, "fold-accents", false, "ignore accents when deriving shopping items")
	fset.Uint64Var(&options.Seed, "seed", 0, "planner random seed (0 = time based)")
	fset.Func("cors", "comma separated allowed origins", func(s string) error {
		options.CORSOrigins = splitList(s)
		return nil
	})
	fset.StringVar(&options.Config, "config", "", "path to config file")
	fset.StringVar(&options.Config, "c", "", "path to config file (shorthand)")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := readFile(options.Config, options); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error while loading .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, options); err != nil {
		return nil, fmt.Errorf("error while reading environment: %w", err)
	}
	if err := options.validate(); err != nil {
		return nil, err
	}

	return options, nil
}

func (o *Options) validate() error {
	if o.ExpiryInterval <= 0 {
		return fmt.Errorf("expiry interval must be positive, got %s", o.Interval())
	}
	if o.ExpiryWindow < 0 {
		return fmt.Errorf("expiry window must not be negative, got %s", o.Window())
	}
	if _, err := zap.ParseAtomicLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	return nil
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It exits the process on invalid input.
func Parse() *Options {
	options, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}

func readFile(path string, options *Options) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, options)
	default:
		err = json.Unmarshal(data, options)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
