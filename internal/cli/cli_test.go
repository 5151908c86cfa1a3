package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/layout"
	"github.com/dgallion1/xapidoc/internal/layout/layouttest"
	"github.com/dgallion1/xapidoc/internal/parser"
)

func writeGuide(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.json")
	if err := os.WriteFile(path, layouttest.Dump(layouttest.Guide()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExtract_JSON(t *testing.T) {
	out, stderr, err := run(t, "extract", writeGuide(t), "--trailing", "1")
	if err != nil {
		t.Fatalf("extract: %v\n%s", err, stderr)
	}
	var api apitree.API
	if err := json.Unmarshal([]byte(out), &api); err != nil {
		t.Fatalf("decode model: %v", err)
	}
	if len(api.Configurations) != 1 || len(api.Commands) != 1 || len(api.Statuses) != 1 {
		t.Errorf("unexpected model %+v", api)
	}
	if api.Title != "Room Kit API Reference" {
		t.Errorf("expected guide title, got %q", api.Title)
	}
	for _, want := range []string{"Room Kit API Reference", "configuration", "command", "status", "OK"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected summary to contain %q:\n%s", want, stderr)
		}
	}
}

func TestExtract_FormatFromOutput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		out    string
		format string
		prefix string
		want   string
	}{
		{out: "model.md", want: "xConfiguration Audio DefaultVolume"},
		{out: "model.html", want: "<nav"},
		{out: "model.bin", format: "xlsx", prefix: "PK"},
		{out: "model.docx", prefix: "PK"},
	}
	for _, tc := range tests {
		t.Run(tc.out, func(t *testing.T) {
			path := filepath.Join(dir, tc.out)
			args := []string{"extract", writeGuide(t), "--trailing", "1", "--out", path, "--title", "Desk Guide"}
			if tc.format != "" {
				args = append(args, "--format", tc.format)
			}
			stdout, stderr, err := run(t, args...)
			if err != nil {
				t.Fatalf("extract: %v\n%s", err, stderr)
			}
			if stdout != "" {
				t.Errorf("expected nothing on stdout, got %q", stdout)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if tc.prefix != "" && !bytes.HasPrefix(data, []byte(tc.prefix)) {
				t.Errorf("expected %s to start with %q", tc.out, tc.prefix)
			}
			if tc.want != "" && !bytes.Contains(data, []byte(tc.want)) {
				t.Errorf("expected %s to contain %q", tc.out, tc.want)
			}
			if tc.want != "" && !bytes.Contains(data, []byte("Desk Guide")) {
				t.Errorf("expected title override in %s", tc.out)
			}
		})
	}
}

func TestExtract_ParseErrorDiagnostics(t *testing.T) {
	// Without trimming, the overview page is parsed as a status.
	_, stderr, err := run(t, "extract", writeGuide(t), "--trailing", "0")
	var ute *parser.UnexpectedTokenError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnexpectedTokenError, got %v", err)
	}
	if ute.Page != 5 {
		t.Errorf("expected failure on page 5, got %d", ute.Page)
	}
	for _, want := range []string{"unexpected token", "Page:", "State:"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected diagnostics to contain %q:\n%s", want, stderr)
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	guide := writeGuide(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no file", []string{"extract"}, "accepts 1 arg"},
		{"bad format", []string{"extract", guide, "--format", "pptx"}, "pptx"},
		{"bad extension", []string{"extract", "guide.txt"}, "unsupported file extension"},
		{"missing file", []string{"extract", filepath.Join(t.TempDir(), "missing.json")}, "no such file"},
		{"negative trailing", []string{"extract", guide, "--trailing", "-1"}, "--trailing"},
		{"missing rules", []string{"extract", guide, "--rules", filepath.Join(t.TempDir(), "none.yaml")}, "read rules"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := run(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestStyles(t *testing.T) {
	out, _, err := run(t, "styles", writeGuide(t), "--page", "2")
	if err != nil {
		t.Fatalf("styles: %v", err)
	}
	for _, want := range []string{"Page", "method-name-heading", "DefaultVolume", "product-name", "CiscoSansTTBold 10.0pt"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "styles", writeGuide(t), "--page", "3", "--style", "parameter-name")
	if err != nil {
		t.Fatalf("styles: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "Level:") || strings.Count(out, "parameter-name") != 1 {
		t.Errorf("expected only the Level parameter, got:\n%s", out)
	}
}

func TestStyles_WarnsWithoutColour(t *testing.T) {
	doc := layouttest.Guide()
	for i := range doc.Pages {
		for j := range doc.Pages[i].Words {
			for k := range doc.Pages[i].Words[j].Glyphs {
				doc.Pages[i].Words[j].Glyphs[k].Color = layout.RGB{}
			}
		}
	}
	black := filepath.Join(t.TempDir(), "black.json")
	if err := os.WriteFile(black, layouttest.Dump(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		warn bool
	}{
		{"coloured dump", writeGuide(t), false},
		{"colourless dump", black, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, stderr, err := run(t, "styles", tc.path, "--page", "2")
			if err != nil {
				t.Fatalf("styles: %v", err)
			}
			if got := strings.Contains(stderr, "no glyph colour"); got != tc.warn {
				t.Errorf("expected warning %v, got %v:\n%s", tc.warn, got, stderr)
			}
		})
	}
}

func TestStyles_Errors(t *testing.T) {
	guide := writeGuide(t)
	if _, _, err := run(t, "styles", guide, "--page", "42"); err == nil || !strings.Contains(err.Error(), "page 42") {
		t.Errorf("expected missing page error, got %v", err)
	}
	if _, _, err := run(t, "styles", guide, "--style", "heading"); err == nil {
		t.Error("expected unknown style error")
	}
}

func TestSections(t *testing.T) {
	out, _, err := run(t, "sections", writeGuide(t), "--trailing", "1")
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	for _, want := range []string{"Bookmarks", "xStatus commands", "configuration", "2..2", "4..4"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "sections", writeGuide(t), "--trailing", "5")
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if !strings.Contains(out, "empty range") {
		t.Errorf("expected trimming error in output:\n%s", out)
	}
}

func TestDump_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copy.json")
	if _, _, err := run(t, "dump", writeGuide(t), "--out", path); err != nil {
		t.Fatalf("dump: %v", err)
	}
	doc, err := loadDocument(path)
	if err != nil {
		t.Fatalf("load dump: %v", err)
	}
	want := layouttest.Guide()
	if doc.WordCount() != want.WordCount() || len(doc.Bookmarks) != len(want.Bookmarks) {
		t.Errorf("expected %d words and %d bookmarks, got %d and %d",
			want.WordCount(), len(want.Bookmarks), doc.WordCount(), len(doc.Bookmarks))
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "xapidoc dev") {
		t.Errorf("unexpected version output %q", out)
	}
}
