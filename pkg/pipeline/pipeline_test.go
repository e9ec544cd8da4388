package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/errors"
	"github.com/matzehuels/calloutgen/pkg/observability"
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
    }]
  }]
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkout.json")
	if err := os.WriteFile(path, []byte(checkout), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, nil, log.New(io.Discard))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr errors.Code
	}{
		{"defaults", Options{}, ""},
		{"formats", Options{Formats: []string{"svg", "png", "pdf"}}, ""},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad command", Options{Command: "explode"}, errors.ErrCodeUnsupported},
		{"remove with frames", Options{Command: callouts.CommandRemove, Frames: []string{"1:2"}}, errors.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.SetDefaults()
			err := tt.opts.Validate()
			if got := errors.GetCode(err); got != tt.wantErr {
				t.Errorf("Validate() = %v, want code %q", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()
	if opts.Command != callouts.CommandGenerate || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("SetDefaults() = %+v", opts)
	}
}

func TestArtifactKeyOptsScaleOnlyForPNG(t *testing.T) {
	opts := Options{Scale: 3}
	if opts.ArtifactKeyOpts(FormatSVG).Scale != 0 {
		t.Error("svg key depends on scale")
	}
	if opts.ArtifactKeyOpts(FormatPNG).Scale != 3 {
		t.Error("png key ignores scale")
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	result, err := r.Execute(context.Background(), writeDoc(t), Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Notification.Message != "Generated 1 callout across 1 frame" {
		t.Errorf("notification = %+v", result.Notification)
	}
	page, _ := result.Document.Page("")
	if page.ChildByName(callouts.GroupName) == nil {
		t.Error("callout group missing from document")
	}
	if svg := string(result.Artifacts[FormatSVG]); !strings.Contains(svg, "Primary action") {
		t.Error("svg artifact does not contain the callout text")
	}
	if result.DocumentHash == "" || result.Stats.NodeCount == 0 {
		t.Errorf("result = %+v", result.Stats)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()
	path := writeDoc(t)

	tests := []struct {
		name string
		path string
		opts Options
		want errors.Code
	}{
		{"missing file", filepath.Join(t.TempDir(), "none.json"), Options{}, errors.ErrCodeFileNotFound},
		{"bad extension", "doc.txt", Options{}, errors.ErrCodeInvalidPath},
		{"unknown page", path, Options{Page: "Nope"}, errors.ErrCodePageNotFound},
		{"unknown frame", path, Options{Frames: []string{"9:9"}}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.path, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestExecuteNotificationSkipsRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	body := "name: Empty\npages:\n  - name: P\n    children:\n      - {id: f, type: FRAME, absoluteBoundingBox: {x: 0, y: 0, width: 10, height: 10}}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	result, err := quietRunner(nil).Execute(context.Background(), path, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Notification.Message != callouts.MsgNoAnnotations || len(result.Artifacts) != 0 {
		t.Errorf("result = %+v, %d artifacts", result.Notification, len(result.Artifacts))
	}
}

func TestApplyFrames(t *testing.T) {
	doc, err := scene.Read(strings.NewReader(checkout), scene.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	_, note, err := quietRunner(nil).Apply(context.Background(), doc, Options{Frames: []string{"1:2"}})
	if err != nil || note.Error || note.Count != 1 {
		t.Errorf("Apply(frames) = %+v, %v", note, err)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu   sync.Mutex
	hits int
	sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestProcessCaches(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatSVG}}

	run := func() *Result {
		doc, err := scene.Read(strings.NewReader(checkout), scene.FormatJSON)
		if err != nil {
			t.Fatal(err)
		}
		result, err := r.Process(ctx, doc, opts)
		if err != nil {
			t.Fatal(err)
		}
		return result
	}

	first := run()
	if first.CacheInfo.ApplyHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit cache: %+v", first.CacheInfo)
	}
	second := run()
	if !second.CacheInfo.ApplyHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed cache: %+v", second.CacheInfo)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}
	if second.Notification != first.Notification {
		t.Errorf("cached notification %+v, want %+v", second.Notification, first.Notification)
	}
	if hooks.hits != 2 || hooks.sets != 2 {
		t.Errorf("hooks hits=%d sets=%d, want 2 and 2", hooks.hits, hooks.sets)
	}

	opts.Refresh = true
	if third := run(); third.CacheInfo.ApplyHit {
		t.Error("refresh used the cache")
	}
}

func TestRemoveIsNotCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	ctx := context.Background()

	doc, _ := scene.Read(strings.NewReader(checkout), scene.FormatJSON)
	if _, _, err := r.Apply(ctx, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	_, note, hit, err := r.ApplyWithCacheInfo(ctx, doc, Options{Command: callouts.CommandRemove})
	if err != nil || hit || note.Message != callouts.MsgRemoved {
		t.Errorf("remove = %+v, hit=%v, err=%v", note, hit, err)
	}
}

func TestRenderCancelled(t *testing.T) {
	doc, _ := scene.Read(strings.NewReader(checkout), scene.FormatJSON)
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	if _, err := Render(ctx, doc, Options{Formats: []string{FormatPNG}, Scale: 1}); err == nil {
		t.Error("Render(cancelled) error = nil")
	}
}
