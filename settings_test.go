package lazytween

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

const sampleSettings = `
initialCapacity: 64
defaultGroup: ui
defaultEase: bump
timeScale: 0.5
warnStaleHandles: false
groups:
  - name: ui
    scaled: false
curves:
  bump:
    - {time: 0, value: 0}
    - {time: 1, value: 1}
`

// go test -run ^TestParseSettings$ . -count 1
func TestParseSettings(t *testing.T) {
	st, err := ParseSettings([]byte(sampleSettings))
	if err != nil {
		t.Fatal(err)
	}
	if st.InitialCapacity != 64 || st.DefaultGroup != "ui" || st.TimeScale != 0.5 || st.WarnStaleHandles {
		t.Errorf("Unexpected settings %+v", st)
	}
	if len(st.Groups) != 1 || st.Groups[0].Scaled {
		t.Errorf("Expected one unscaled group, got %+v", st.Groups)
	}
	if len(st.Curves["bump"]) != 2 {
		t.Errorf("Expected two keys in curve bump, got %d", len(st.Curves["bump"]))
	}

	partial, err := ParseSettings([]byte("timeScale: 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if partial.DefaultGroup != "update" || partial.InitialCapacity != 1024 {
		t.Errorf("Expected defaults for missing keys, got %+v", partial)
	}

	if _, err := ParseSettings([]byte("initialCapacity: [")); err == nil {
		t.Error("Expected malformed YAML to fail")
	}
}

// go test -run ^TestSettingsDriveScheduler$ . -count 1
func TestSettingsDriveScheduler(t *testing.T) {
	st, err := ParseSettings([]byte(sampleSettings))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestScheduler(t, WithSettings(st))
	ui, ok := s.GroupByName("ui")
	if !ok {
		t.Fatal("Expected group ui to be registered")
	}

	var last float32
	tw := s.Float(0, 1, 1, func(v float32) { last = v })
	if g, ok := tw.Group(); !ok || g != ui {
		t.Fatalf("Expected new tweens to join ui, got %d (%v)", g, ok)
	}
	mustRun(t, s, ui, 0.25)
	// smoothstep from the flat-tangent curve
	if last != 0.15625 {
		t.Errorf("Expected curve ease 0.15625, got %v", last)
	}
}

// go test -run ^TestValidateSettings$ . -count 1
func TestValidateSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"negative capacity", func(st *Settings) { st.InitialCapacity = -1 }},
		{"negative time scale", func(st *Settings) { st.TimeScale = -1 }},
		{"unnamed group", func(st *Settings) { st.Groups = []GroupSettings{{}} }},
		{"duplicate group", func(st *Settings) { st.Groups = []GroupSettings{{Name: "update"}} }},
		{"unknown default group", func(st *Settings) { st.DefaultGroup = "nope" }},
		{"unknown default ease", func(st *Settings) { st.DefaultEase = "nope" }},
		{"empty curve", func(st *Settings) { st.Curves = map[string][]Keyframe{"flat": nil} }},
	}
	for _, c := range cases {
		st := DefaultSettings()
		c.mutate(&st)
		if err := st.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: Expected ErrInvalidArgument, got %v", c.name, err)
		}
		if _, err := New(WithSettings(st)); err == nil {
			t.Errorf("%s: Expected New to reject the settings", c.name)
		}
	}
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

// go test -run ^TestLoadSettings$ . -count 1
func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tween.yaml")
	if err := os.WriteFile(path, []byte(sampleSettings), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.DefaultEase != "bump" {
		t.Errorf("Expected defaultEase bump, got %q", st.DefaultEase)
	}
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected a missing file to fail")
	}
}
