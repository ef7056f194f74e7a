package launcher

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		url      string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "linux",
			goos:     "linux",
			url:      "https://pubmed.ncbi.nlm.nih.gov/301/",
			wantArgs: []string{"xdg-open", "https://pubmed.ncbi.nlm.nih.gov/301/"},
		},
		{
			name:     "darwin",
			goos:     "darwin",
			url:      "https://pubmed.ncbi.nlm.nih.gov/301/",
			wantArgs: []string{"open", "https://pubmed.ncbi.nlm.nih.gov/301/"},
		},
		{
			name:    "file URLs are refused",
			goos:    "linux",
			url:     "file:///etc/passwd",
			wantErr: true,
		},
		{
			name:    "unknown OS",
			goos:    "plan9",
			url:     "https://pubmed.ncbi.nlm.nih.gov/301/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Browser{goos: tt.goos}
			cmd, err := b.Command(tt.url)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.wantArgs, cmd.Args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpenURLRunsCommand(t *testing.T) {
	var ran []string
	b := &Browser{goos: "linux", run: func(c *exec.Cmd) error {
		ran = c.Args
		return nil
	}}

	if err := b.OpenURL("https://pubmed.ncbi.nlm.nih.gov/1/"); err != nil {
		t.Fatalf("OpenURL failed: %v", err)
	}
	if len(ran) != 2 || ran[0] != "xdg-open" {
		t.Errorf("ran %v, expected xdg-open", ran)
	}
}

func TestEditorFind(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		path map[string]string
		want string
	}{
		{name: "visual wins", env: map[string]string{"VISUAL": "code -w", "EDITOR": "vim"}, want: "code -w"},
		{name: "editor", env: map[string]string{"EDITOR": "hx"}, want: "hx"},
		{name: "first on path", path: map[string]string{"vi": "/usr/bin/vi", "nano": "/usr/bin/nano"}, want: "/usr/bin/vi"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Editor{
				getenv: func(k string) string { return tt.env[k] },
				lookPath: func(name string) (string, error) {
					if p, ok := tt.path[name]; ok {
						return p, nil
					}
					return "", errors.New("not found")
				},
			}
			if got := e.find(); got != tt.want {
				t.Errorf("find() = %q, expected %q", got, tt.want)
			}
		})
	}
}
