package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	l, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.yaml"), LookupEnv: envFrom(nil)})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if diff := cmp.Diff(want, l.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	for _, v := range l.Values() {
		if v.Source != SourceDefault {
			t.Errorf("%s source = %s, expected default", v.Key, v.Source)
		}
	}
	if err := l.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
eutils:
  api_key: from-file-key
  timeout: 45s
clustering:
  min_cluster_size: 4
  excluded_branches: [B, Z01]
cards:
  model: sonnet
log:
  level: debug
`)

	l, err := Load(LoadOptions{
		Path: path,
		LookupEnv: envFrom(map[string]string{
			"STUDYBUDDY_CLUSTERING_MIN_CLUSTER_SIZE": "7",
			"STUDYBUDDY_LOG_FORMAT":                  "json",
		}),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := l.Set("cards.model", "opus", SourceFlag, "--model"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	tests := []struct {
		key        string
		wantSource Source
	}{
		{"eutils.api_key", SourceConfig},
		{"eutils.timeout", SourceConfig},
		{"clustering.min_cluster_size", SourceEnv},
		{"clustering.excluded_branches", SourceConfig},
		{"cards.model", SourceFlag},
		{"log.level", SourceConfig},
		{"log.format", SourceEnv},
		{"cards.per_cluster", SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := l.Source(tt.key); got != tt.wantSource {
				t.Errorf("Source(%s) = %s, expected %s", tt.key, got, tt.wantSource)
			}
		})
	}

	if l.EUtils.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, expected 45s", l.EUtils.Timeout)
	}
	if l.Clustering.MinClusterSize != 7 {
		t.Errorf("min cluster size = %d, expected env value 7", l.Clustering.MinClusterSize)
	}
	if diff := cmp.Diff([]string{"B", "Z01"}, l.Clustering.ExcludedBranches); diff != "" {
		t.Errorf("excluded branches mismatch (-want +got):\n%s", diff)
	}
	if l.Cards.Model != "opus" {
		t.Errorf("model = %q, expected flag value", l.Cards.Model)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "unknown key", content: "clustering:\n  min_size: 3\n"},
		{name: "bad integer", content: "clustering:\n  min_cluster_size: lots\n"},
		{name: "bad duration", content: "eutils:\n  timeout: soon\n"},
		{name: "not a mapping", content: "- a\n- b\n"},
		{name: "bad env", content: "", env: map[string]string{"STUDYBUDDY_CARDS_PER_CLUSTER": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Path: writeConfig(t, tt.content), LookupEnv: envFrom(tt.env)})
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "cards:\n  per_cluster: 5\n")

	l, err := Load(LoadOptions{LookupEnv: envFrom(map[string]string{"STUDYBUDDY_CONFIG": path})})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Path != path || l.Cards.PerCluster != 5 {
		t.Errorf("path = %s, per cluster = %d; expected the env config to be read", l.Path, l.Cards.PerCluster)
	}
}

func TestEmptyExcludedBranches(t *testing.T) {
	l, err := Load(LoadOptions{
		Path:      writeConfig(t, "clustering:\n  excluded_branches: []\n"),
		LookupEnv: envFrom(nil),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(l.Clustering.ExcludedBranches) != 0 {
		t.Errorf("excluded branches = %v, expected none", l.Clustering.ExcludedBranches)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantKeys []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "retries disabled", mutate: func(c *Config) { c.EUtils.MaxRetries = 0 }},
		{
			name:     "negative retries",
			mutate:   func(c *Config) { c.EUtils.MaxRetries = -1 },
			wantKeys: []string{"eutils.max_retries"},
		},
		{
			name:     "zero thresholds",
			mutate:   func(c *Config) { c.Clustering.MinClusterSize = 0; c.Clustering.MinLineageDepth = 0 },
			wantKeys: []string{"clustering.min_cluster_size", "clustering.min_lineage_depth"},
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.Log.Level = "loud" },
			wantKeys: []string{"log.level"},
		},
		{
			name:     "empty branch",
			mutate:   func(c *Config) { c.Clustering.ExcludedBranches = []string{"B", ""} },
			wantKeys: []string{"clustering.excluded_branches"},
		},
		{
			name:     "rate above NCBI limit",
			mutate:   func(c *Config) { c.EUtils.RequestsPerSecond = 50 },
			wantKeys: []string{"eutils.requests_per_second"},
		},
		{
			name:     "bad base url",
			mutate:   func(c *Config) { c.EUtils.BaseURL = "not a url" },
			wantKeys: []string{"eutils.base_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()

			if len(tt.wantKeys) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, expected nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, expected *ValidationError", err)
			}
			var keys []string
			for _, f := range verr.Fields {
				keys = append(keys, f.Key)
			}
			if diff := cmp.Diff(tt.wantKeys, keys); diff != "" {
				t.Errorf("invalid keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValuesMaskSecrets(t *testing.T) {
	l, err := Load(LoadOptions{
		Path:      filepath.Join(t.TempDir(), "none.yaml"),
		LookupEnv: envFrom(map[string]string{"STUDYBUDDY_EUTILS_API_KEY": "abcdef123456"}),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, v := range l.Values() {
		if v.Key != "eutils.api_key" {
			continue
		}
		if v.Value != "abcd********" {
			t.Errorf("api key shown as %q", v.Value)
		}
		if v.Source != SourceEnv || v.From != "STUDYBUDDY_EUTILS_API_KEY" {
			t.Errorf("source = %s from %s", v.Source, v.From)
		}
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	l, err := Load(LoadOptions{Path: path, LookupEnv: envFrom(nil)})
	if err != nil {
		t.Fatalf("Load of written config failed: %v", err)
	}
	if diff := cmp.Diff(Default(), l.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if l.Source("cards.model") != SourceConfig {
		t.Errorf("cards.model source = %s, expected config", l.Source("cards.model"))
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		env  map[string]string
		want string
	}{
		{name: "explicit path wins", path: "/tmp/a.yaml", env: map[string]string{"STUDYBUDDY_CONFIG": "/tmp/b.yaml"}, want: "/tmp/a.yaml"},
		{name: "env path", env: map[string]string{"STUDYBUDDY_CONFIG": "/tmp/b.yaml"}, want: "/tmp/b.yaml"},
		{name: "empty env falls back", env: map[string]string{"STUDYBUDDY_CONFIG": ""}, want: DefaultPath()},
		{name: "default", want: DefaultPath()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePath(tt.path, envFrom(tt.env)); got != tt.want {
				t.Errorf("resolvePath(%q) = %q, expected %q", tt.path, got, tt.want)
			}
		})
	}
}
