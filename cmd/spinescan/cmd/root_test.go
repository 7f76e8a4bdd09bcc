package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spinescan/spinescan/internal/layout"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := GetRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootHelp(t *testing.T) {
	chdir(t, t.TempDir())
	out, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, want := range []string{"spinescan", "scan", "layout", "serve"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	boxes := `[
		{"x1": 10, "y1": 10, "x2": 100, "y2": 30},
		{"x1": 10, "y1": 40, "x2": 100, "y2": 60}
	]`
	path := filepath.Join(dir, "boxes.json")
	if err := os.WriteFile(path, []byte(boxes), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := executeCommand(t, "layout", path)
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}

	var res layout.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not a layout result: %v\n%s", err, out)
	}
	if res.TotalColumns() != 1 || len(res.ReadingOrder) != 2 {
		t.Fatalf("unexpected layout: %+v", res)
	}
}

func TestConfigInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if _, err := executeCommand(t, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "spinescan.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
}

func TestScanCommandMissingImage(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := executeCommand(t, "scan", "missing.jpg"); err == nil {
		t.Fatalf("scan with a missing image should fail")
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
