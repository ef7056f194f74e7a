package launcher

import (
	"fmt"
	"os"
	"os/exec"
)

// Editor opens files in the user's preferred editor
type Editor struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// NewEditor creates a new Editor
func NewEditor() *Editor {
	return &Editor{getenv: os.Getenv, lookPath: exec.LookPath}
}

// Command returns an exec.Cmd attached to the terminal that edits path
func (e *Editor) Command(path string) (*exec.Cmd, error) {
	editor := e.find()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// find returns $VISUAL, then $EDITOR, then the first common editor on PATH
func (e *Editor) find() string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := e.getenv(key); v != "" {
			return v
		}
	}
	for _, name := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := e.lookPath(name); err == nil {
			return path
		}
	}
	return ""
}
