package fonts

import (
	"context"
	"encoding/base64"
	"testing"
)

func TestLoad(t *testing.T) {
	if err := Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Load(ctx); err == nil {
		t.Error("Load(cancelled) error = nil")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	short := m.Width("Hi", Regular, 11)
	long := m.Width("Hi there, world", Regular, 11)
	if short <= 0 || long <= short {
		t.Errorf("Width() short=%v long=%v", short, long)
	}
	if m.Width("", Regular, 11) != 0 {
		t.Error("Width(\"\") != 0")
	}
	if big := m.Width("Hi", Regular, 22); big <= short {
		t.Errorf("Width at 22pt = %v, not larger than 11pt %v", big, short)
	}
	h := m.LineHeight(Medium, 12)
	if h < 12 || h > 20 {
		t.Errorf("LineHeight(12) = %v", h)
	}
	if a := m.Ascent(Medium, 12); a <= 0 || a >= h {
		t.Errorf("Ascent(12) = %v, line height %v", a, h)
	}
}

func TestBase64(t *testing.T) {
	for _, s := range []Style{Regular, Medium} {
		data, err := base64.StdEncoding.DecodeString(Base64(s))
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if len(data) != len(TTF(s)) {
			t.Errorf("%s: decoded %d bytes, want %d", s, len(data), len(TTF(s)))
		}
	}
}

func TestStyle(t *testing.T) {
	if ParseStyle("Medium") != Medium || ParseStyle("Bold") != Regular {
		t.Error("ParseStyle mismatch")
	}
	if Medium.Weight() != 500 || Regular.String() != "Regular" {
		t.Error("Style accessors mismatch")
	}
}
