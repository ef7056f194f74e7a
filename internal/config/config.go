// Package config resolves studybuddy settings from built-in defaults, a YAML
// file, STUDYBUDDY_* environment variables and command-line flags, in that
// order of precedence, remembering where each value came from.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "STUDYBUDDY_"

// Source says which layer set a value.
type Source string

const (
	SourceDefault Source = "default"
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Config holds every setting.
type Config struct {
	DBPath      string           `yaml:"db_path" validate:"required"`
	EUtils      EUtilsConfig     `yaml:"eutils"`
	Clustering  ClusteringConfig `yaml:"clustering"`
	Cards       CardsConfig      `yaml:"cards"`
	Log         LogConfig        `yaml:"log"`
	MetricsFile string           `yaml:"metrics_file"`
}

// EUtilsConfig configures the PubMed E-utilities client.
type EUtilsConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	APIKey  string `yaml:"api_key"`
	// RequestsPerSecond of 0 picks NCBI's limit: 3, or 10 with an API key.
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0,lte=10"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
	// MaxRetries counts resends after the first request.
	MaxRetries        int           `yaml:"max_retries" validate:"min=0,max=10"`
	Concurrency       int           `yaml:"concurrency" validate:"min=1,max=8"`
}

// ClusteringConfig holds the clustering knobs.
type ClusteringConfig struct {
	MinClusterSize   int      `yaml:"min_cluster_size" validate:"min=1"`
	MinLineageDepth  int      `yaml:"min_lineage_depth" validate:"min=1"`
	ExcludedBranches []string `yaml:"excluded_branches" validate:"dive,required"`
}

// CardsConfig configures flash card generation.
type CardsConfig struct {
	Model      string `yaml:"model" validate:"required"`
	PerCluster int    `yaml:"per_cluster" validate:"min=1,max=200"`
	Command    string `yaml:"command" validate:"required"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error off disabled"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath: DefaultDBPath(),
		EUtils: EUtilsConfig{
			BaseURL:     "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/",
			Timeout:     5 * time.Minute,
			MaxRetries:  6,
			Concurrency: 2,
		},
		Clustering: ClusteringConfig{
			MinClusterSize:   10,
			MinLineageDepth:  3,
			ExcludedBranches: []string{"B", "B01", "B02", "B03", "B04", "B05"},
		},
		Cards: CardsConfig{
			Model:      "haiku",
			PerCluster: 20,
			Command:    "claude",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/studybuddy/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studybuddy", "config.yaml")
}

// DefaultDBPath returns $XDG_DATA_HOME/studybuddy/cache.db.
func DefaultDBPath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "studybuddy", "cache.db")
}

// Loaded is a resolved Config together with the source of every value.
type Loaded struct {
	Config
	Path    string // config file consulted, whether or not it exists
	sources map[string]Source
	origins map[string]string
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path of the config file. Empty means $STUDYBUDDY_CONFIG, then DefaultPath.
	Path string
	// LookupEnv reads the environment. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves defaults, then the config file if it exists, then the
// environment. Flags are applied afterwards with Set. The result is not yet
// validated.
func Load(opts LoadOptions) (*Loaded, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	l := &Loaded{
		Config:  Default(),
		Path:    resolvePath(opts.Path, lookup),
		sources: make(map[string]Source, len(fields)),
		origins: make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		l.sources[f.key] = SourceDefault
	}

	if err := l.loadFile(); err != nil {
		return nil, err
	}

	for _, f := range fields {
		name := f.envName()
		if raw, ok := lookup(name); ok {
			if err := l.Set(f.key, raw, SourceEnv, name); err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

// ResolvePath returns the config file Load would read for path.
func ResolvePath(path string) string {
	return resolvePath(path, os.LookupEnv)
}

func resolvePath(path string, lookup func(string) (string, bool)) string {
	path = strings.TrimSpace(path)
	if path == "" {
		if env, ok := lookup(EnvPrefix + "CONFIG"); ok && env != "" {
			path = env
		} else {
			path = DefaultPath()
		}
	}
	return expandHome(path)
}

func (l *Loaded) loadFile() error {
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", l.Path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", l.Path, err)
	}
	if len(root.Content) == 0 {
		return nil
	}

	values := make(map[string]string)
	if err := flatten(root.Content[0], "", values); err != nil {
		return fmt.Errorf("config %s: %w", l.Path, err)
	}
	for key, raw := range values {
		if err := l.Set(key, raw, SourceConfig, l.Path); err != nil {
			return fmt.Errorf("config %s: %w", l.Path, err)
		}
	}
	return nil
}

// flatten turns a YAML mapping into dotted keys. Sequences of scalars become
// comma-separated values.
func flatten(node *yaml.Node, prefix string, out map[string]string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping at %q", strings.TrimSuffix(prefix, "."))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := prefix + node.Content[i].Value
		value := node.Content[i+1]

		switch value.Kind {
		case yaml.MappingNode:
			if err := flatten(value, key+".", out); err != nil {
				return err
			}
		case yaml.SequenceNode:
			items := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("%s: expected a list of values", key)
				}
				items = append(items, item.Value)
			}
			out[key] = strings.Join(items, ",")
		case yaml.ScalarNode:
			if value.Tag == "!!null" {
				continue
			}
			out[key] = value.Value
		default:
			return fmt.Errorf("%s: unsupported value", key)
		}
	}
	return nil
}

// Set assigns a raw value to a dotted key and records its source. from names
// the file, variable or flag it came from.
func (l *Loaded) Set(key, raw string, src Source, from string) error {
	f, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := f.set(&l.Config, strings.TrimSpace(raw)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	l.sources[key] = src
	l.origins[key] = from
	return nil
}

// Source returns the layer that set key.
func (l *Loaded) Source(key string) Source {
	if s, ok := l.sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Value is one resolved setting for display.
type Value struct {
	Key    string
	Value  string
	Source Source
	From   string
}

// Values lists every setting in a fixed order. Secrets are masked.
func (l *Loaded) Values() []Value {
	out := make([]Value, 0, len(fields))
	for _, f := range fields {
		v := f.get(&l.Config)
		if f.secret && v != "" {
			v = mask(v)
		}
		out = append(out, Value{
			Key:    f.key,
			Value:  v,
			Source: l.Source(f.key),
			From:   l.origins[f.key],
		})
	}
	return out
}

// WriteDefault writes the built-in configuration to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
