package main

import (
	"bytes"
	"encoding/json"
	goerrors "errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/leanparse/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("cfg = %s, want defaults", cfg)
	}
}

func TestLoadConfigFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    projectConfig
	}{
		{
			"yaml",
			"leanparse.yaml",
			"extensions: [.lean, .olean]\nformat: json\nworkers: 2\n",
			projectConfig{Extensions: []string{".lean", ".olean"}, Format: "json", Workers: 2, LogLevel: "INFO"},
		},
		{
			"toml",
			"leanparse.toml",
			"format = \"lean\"\nlog_level = \"debug\"\n",
			projectConfig{Extensions: []string{".lean"}, Format: "lean", Workers: 4, LogLevel: "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			cfg, err := loadConfig(dir)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(cfg, tt.want) {
				t.Errorf("cfg = %s, want %s", cfg, tt.want)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad workers", "leanparse.yaml", "workers: 0\n"},
		{"bad format", "leanparse.yaml", "format: xml\n"},
		{"bad level", "leanparse.toml", "log_level = \"loud\"\n"},
		{"bad extension", "leanparse.yaml", "extensions: [lean]\n"},
		{"unknown yaml key", "leanparse.yaml", "colour: red\n"},
		{"broken toml", "leanparse.toml", "workers = \n"},
		{"unsupported format", "leanparse.ini", "workers=1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			if _, err := loadConfigFile(path); err == nil {
				t.Errorf("loading %q succeeded", tt.content)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path, err := writeDefaultConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("cfg = %s", cfg)
	}
	if _, err := writeDefaultConfig(dir); err == nil {
		t.Error("second init overwrote the project file")
	}
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.lean"), "")
	writeFile(t, filepath.Join(dir, "a.lean"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.lean"), "")
	writeFile(t, filepath.Join(dir, ".hidden", "d.lean"), "")
	single := filepath.Join(dir, "notes.txt")

	paths, err := collectSources([]string{dir, single}, []string{".lean"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.lean"),
		filepath.Join(dir, "b.lean"),
		filepath.Join(dir, "sub", "c.lean"),
		single,
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v\nwant    %v", paths, want)
	}

	if _, err := collectSources([]string{filepath.Join(dir, "missing")}, []string{".lean"}); err == nil {
		t.Error("missing path accepted")
	}
}

func TestParseAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{
		"def a := 1",
		"def := 2",
		"namespace N\n  def b := 2\n  theorem c : b = b := rfl\nend N",
		"#check x",
		"structure P where\n  x : Nat",
	} {
		path := filepath.Join(dir, string(rune('a'+i))+".lean")
		writeFile(t, path, src)
		paths = append(paths, path)
	}

	results := parseAll(paths, 2)
	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d", len(results))
	}
	wantDecls := []int{1, 0, 2, 0, 1}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %s, want %s", i, r.Path, paths[i])
		}
		if (r.Err != nil) != (i == 1) {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
		if got := r.Declarations(); got != wantDecls[i] {
			t.Errorf("results[%d] has %d declarations, want %d", i, got, wantDecls[i])
		}
	}
	if _, ok := tracerr.Unwrap(results[1].Err).(errors.ExpectedToken); !ok {
		t.Errorf("results[1].Err = %T", tracerr.Unwrap(results[1].Err))
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, goerrors.New("disk full") }

func TestWriteResultsReportsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.lean")
	writeFile(t, path, "def x := 1")
	results := parseAll([]string{path}, 1)

	for _, format := range []string{"json", "yaml"} {
		err := writeResults(brokenWriter{}, format, results)
		if err == nil || tracerr.Unwrap(err).Error() != "disk full" {
			t.Errorf("%s: err = %v, want disk full", format, err)
		}
	}

	var out bytes.Buffer
	if err := writeResults(&out, "yaml", append(results, results...)); err != nil {
		t.Fatal(err)
	}
	if strings.Count(out.String(), "---\n") != 1 {
		t.Errorf("yaml output:\n%s", out.String())
	}
}

func runApp(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err = app.Run(append([]string{"leanparse"}, args...))
	return out.String(), errOut.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "Good.lean"), "def x := 1\ndef y := x")
	writeFile(t, filepath.Join(dir, "src", "Bad.lean"), "x := 1")

	out, _, err := runApp(t, dir, "check", "src")
	if err == nil {
		t.Fatal("check succeeded with a broken file")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], filepath.Join("src", "Bad.lean")+": got IDENT") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != filepath.Join("src", "Good.lean")+": ok (2 declarations)" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestParseCommandFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.lean"), "def f x := x + 1")

	out, _, err := runApp(t, dir, "parse", "--format", "lean", "A.lean")
	if err != nil {
		t.Fatal(err)
	}
	if out != "-- A.lean\ndef f x := x + 1\n" {
		t.Errorf("lean output = %q", out)
	}

	out, _, err = runApp(t, dir, "parse", "--format", "json", "A.lean")
	if err != nil {
		t.Fatal(err)
	}
	var rec struct {
		Path string `json:"path"`
		Tree struct {
			Kind string `json:"kind"`
		} `json:"tree"`
	}
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if rec.Path != "A.lean" || rec.Tree.Kind != "SourceFile" {
		t.Errorf("json output = %s", out)
	}

	if _, _, err := runApp(t, dir, "parse", "--format", "xml", "A.lean"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestParseCommandUsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "leanparse.toml"), "format = \"yaml\"\nextensions = [\".ln\"]\n")
	writeFile(t, filepath.Join(dir, "src", "A.ln"), "#eval 1")
	writeFile(t, filepath.Join(dir, "src", "B.lean"), "not lean at all")

	out, _, err := runApp(t, dir, "parse", "src")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "path: "+filepath.Join("src", "A.ln")) || strings.Contains(out, "B.lean") {
		t.Errorf("yaml output:\n%s", out)
	}
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.lean"), "def x")

	out, _, err := runApp(t, dir, "tokens", "A.lean")
	if err != nil {
		t.Fatal(err)
	}
	want := "A.lean:1:1-1:4\tdef\nA.lean:1:5-1:6\tIDENT \"x\"\nA.lean:1:6-1:6\tEOF\n"
	if out != want {
		t.Errorf("tokens output = %q, want %q", out, want)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runApp(t, dir, "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "leanparse.yaml")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runApp(t, dir, "init"); err == nil {
		t.Error("init overwrote an existing project file")
	}
}
