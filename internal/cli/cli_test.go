package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/calloutgen/pkg/config"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/scene"
)

const checkout = `{
  "name": "Checkout",
  "pages": [{
    "id": "0:1",
    "name": "Flows",
    "children": [{
      "id": "1:2", "name": "Cart", "type": "FRAME",
      "absoluteBoundingBox": {"x": 0, "y": 0, "width": 400, "height": 300},
      "children": [{
        "id": "1:3", "name": "Pay", "type": "RECTANGLE",
        "absoluteBoundingBox": {"x": 300, "y": 100, "width": 40, "height": 20},
        "annotations": [{"label": "Primary action"}]
      }]
    }, {
      "id": "2:1", "name": "Empty", "type": "FRAME",
      "absoluteBoundingBox": {"x": 600, "y": 0, "width": 400, "height": 300}
    }]
  }]
}`

// isolate points the config and cache directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeDoc(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "checkout.json")
	if err := os.WriteFile(path, []byte(checkout), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func loadPage(t *testing.T, path string) *scene.Page {
	t.Helper()
	doc, err := scene.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	page, err := doc.Page("")
	if err != nil {
		t.Fatal(err)
	}
	return page
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, want := range []string{"generate", "remove", "render", "inspect", "watch", "serve", "cache", "completion"} {
		found := false
		for _, name := range got {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered (have %v)", want, got)
		}
	}
}

func TestGenerateRemoveEndToEnd(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir)

	if err := execute(t, "generate", path); err != nil {
		t.Fatalf("generate: %v", err)
	}
	group := loadPage(t, path).ChildByName(callouts.GroupName)
	if group == nil || len(group.Children) != 3 {
		t.Fatalf("callout group = %+v", group)
	}

	// Regenerating replaces rather than duplicates.
	if err := execute(t, "generate", path); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	groups := 0
	for _, n := range loadPage(t, path).Children {
		if n.Name == callouts.GroupName {
			groups++
		}
	}
	if groups != 1 {
		t.Errorf("found %d callout groups, want 1", groups)
	}

	out := filepath.Join(dir, "clean.json")
	if err := execute(t, "remove", path, "-o", out); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if loadPage(t, out).ChildByName(callouts.GroupName) != nil {
		t.Error("remove left the callout group")
	}
}

func TestGenerateFramesAndFormats(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir)
	out := filepath.Join(dir, "out.json")

	if err := execute(t, "generate", path, "-o", out, "--frames", "1:2", "-f", "svg", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.svg"))
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(data), "Primary action") {
		t.Error("svg is missing the callout text")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"pick with frames", []string{"--pick", "--frames", "1:2"}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"unknown frame", []string{"--frames", "9:9"}, errors.ErrCodeNotFound},
		{"unknown page", []string{"--page", "Nope"}, errors.ErrCodePageNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeDoc(t, dir)
			err := execute(t, append([]string{"generate", path}, tt.args...)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGenerateNoAnnotations(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir)

	if err := execute(t, "generate", path, "--frames", "2:1"); !errors.Is(err, errors.ErrCodeNoAnnotations) {
		t.Errorf("generate error = %v, want NO_ANNOTATIONS", err)
	}
	if err := execute(t, "generate", path, "--frames", "2:1", "--allow-empty"); err != nil {
		t.Errorf("generate --allow-empty error = %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir)
	out := filepath.Join(dir, "page.png")

	if err := execute(t, "render", path, "-f", "png", "-o", out, "--scale", "1"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("output is not a PNG")
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	path := writeDoc(t, dir)

	if err := execute(t, "--config", filepath.Join(dir, "none.toml"), "generate", path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing --config error = %v", err)
	}

	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[layout]\ncallout_width = 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", cfgPath, "generate", path); err != nil {
		t.Fatalf("generate: %v", err)
	}
	card := loadPage(t, path).ChildByName(callouts.GroupName).Children[1]
	if card.AbsoluteBoundingBox.Width != 200 {
		t.Errorf("callout width = %v, want 200", card.AbsoluteBoundingBox.Width)
	}
}

func TestConfigHash(t *testing.T) {
	a := config.Default()
	b := config.Default()
	if configHash(a) != configHash(b) {
		t.Error("equal configs hash differently")
	}
	b.Layout.Gap = 99
	if configHash(a) == configHash(b) {
		t.Error("layout change did not change the hash")
	}
	c := config.Default()
	c.Render.Formats = []string{"png"}
	if configHash(a) != configHash(c) {
		t.Error("output formats should not affect the hash")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in       string
		defaults []string
		want     []string
	}{
		{"", []string{"svg"}, []string{"svg"}},
		{"svg,png", nil, []string{"svg", "png"}},
		{" svg , pdf ,", nil, []string{"svg", "pdf"}},
		{"", nil, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.in, tt.defaults)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
