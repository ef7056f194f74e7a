package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// field binds a dotted key to a Config value.
type field struct {
	key    string
	secret bool
	get    func(*Config) string
	set    func(*Config, string) error
}

// envName returns the variable for key: eutils.api_key is STUDYBUDDY_EUTILS_API_KEY.
func (f field) envName() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.key, ".", "_"))
}

var fields = []field{
	pathField("db_path", func(c *Config) *string { return &c.DBPath }),
	stringField("eutils.base_url", func(c *Config) *string { return &c.EUtils.BaseURL }),
	secretField("eutils.api_key", func(c *Config) *string { return &c.EUtils.APIKey }),
	floatField("eutils.requests_per_second", func(c *Config) *float64 { return &c.EUtils.RequestsPerSecond }),
	durationField("eutils.timeout", func(c *Config) *time.Duration { return &c.EUtils.Timeout }),
	intField("eutils.max_retries", func(c *Config) *int { return &c.EUtils.MaxRetries }),
	intField("eutils.concurrency", func(c *Config) *int { return &c.EUtils.Concurrency }),
	intField("clustering.min_cluster_size", func(c *Config) *int { return &c.Clustering.MinClusterSize }),
	intField("clustering.min_lineage_depth", func(c *Config) *int { return &c.Clustering.MinLineageDepth }),
	listField("clustering.excluded_branches", func(c *Config) *[]string { return &c.Clustering.ExcludedBranches }),
	stringField("cards.model", func(c *Config) *string { return &c.Cards.Model }),
	intField("cards.per_cluster", func(c *Config) *int { return &c.Cards.PerCluster }),
	stringField("cards.command", func(c *Config) *string { return &c.Cards.Command }),
	stringField("log.level", func(c *Config) *string { return &c.Log.Level }),
	stringField("log.format", func(c *Config) *string { return &c.Log.Format }),
	pathField("metrics_file", func(c *Config) *string { return &c.MetricsFile }),
}

// Keys returns every config key in display order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

func stringField(key string, ptr func(*Config) *string) field {
	return field{
		key: key,
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, raw string) error {
			*ptr(c) = raw
			return nil
		},
	}
}

func secretField(key string, ptr func(*Config) *string) field {
	f := stringField(key, ptr)
	f.secret = true
	return f
}

func pathField(key string, ptr func(*Config) *string) field {
	f := stringField(key, ptr)
	f.set = func(c *Config, raw string) error {
		*ptr(c) = expandHome(raw)
		return nil
	}
	return f
}

func intField(key string, ptr func(*Config) *int) field {
	return field{
		key: key,
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", raw)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func floatField(key string, ptr func(*Config) *float64) field {
	return field{
		key: key,
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'f', -1, 64) },
		set: func(c *Config, raw string) error {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", raw)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func durationField(key string, ptr func(*Config) *time.Duration) field {
	return field{
		key: key,
		get: func(c *Config) string { return ptr(c).String() },
		set: func(c *Config, raw string) error {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("expected a duration like 30s, got %q", raw)
			}
			*ptr(c) = d
			return nil
		},
	}
}

// listField reads comma-separated values. An empty value is an empty list.
func listField(key string, ptr func(*Config) *[]string) field {
	return field{
		key: key,
		get: func(c *Config) string { return strings.Join(*ptr(c), ",") },
		set: func(c *Config, raw string) error {
			var items []string
			for _, item := range strings.Split(raw, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*ptr(c) = items
			return nil
		},
	}
}
