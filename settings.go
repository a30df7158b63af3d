package lazytween

import (
	"log"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// GroupSettings declares a custom update channel.
type GroupSettings struct {
	Name   string `yaml:"name"`
	Scaled bool   `yaml:"scaled"`
}

// Settings configure a Scheduler. The zero value is not valid; start from
// DefaultSettings or ParseSettings.
type Settings struct {
	// InitialCapacity pre-sizes the entity store.
	InitialCapacity int `yaml:"initialCapacity"`
	// DefaultGroup is the channel new tweens and sequences join.
	DefaultGroup string `yaml:"defaultGroup"`
	// DefaultEase is a catalogue or curve name applied to new value tweens.
	DefaultEase string `yaml:"defaultEase"`
	// TimeScale multiplies the delta of scaled groups.
	TimeScale float32 `yaml:"timeScale"`
	// WarnStaleHandles logs every call made through a dead handle.
	WarnStaleHandles bool `yaml:"warnStaleHandles"`
	// Groups are registered after the built-in channels.
	Groups []GroupSettings `yaml:"groups"`
	// Curves are named custom eases, usable wherever an ease name is.
	Curves map[string][]Keyframe `yaml:"curves"`
}

// DefaultSettings returns the settings New uses without WithSettings.
func DefaultSettings() Settings {
	return Settings{
		InitialCapacity:  1024,
		DefaultGroup:     "update",
		DefaultEase:      "linear",
		TimeScale:        1,
		WarnStaleHandles: true,
	}
}

// ParseSettings decodes YAML on top of DefaultSettings and validates the
// result.
func ParseSettings(data []byte) (Settings, error) {
	st := DefaultSettings()
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Settings{}, errors.Wrap(err, "decode settings")
	}
	if err := st.Validate(); err != nil {
		return Settings{}, err
	}
	return st, nil
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "read settings %s", path)
	}
	st, err := ParseSettings(data)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "settings %s", path)
	}
	return st, nil
}

// Validate reports the first inconsistency. Errors wrap ErrInvalidArgument.
func (st Settings) Validate() error {
	if st.InitialCapacity < 0 {
		return errors.Wrapf(ErrInvalidArgument, "initialCapacity %d is negative", st.InitialCapacity)
	}
	if st.TimeScale < 0 || math.IsNaN(float64(st.TimeScale)) || math.IsInf(float64(st.TimeScale), 0) {
		return errors.Wrapf(ErrInvalidArgument, "timeScale %v is not a finite non-negative number", st.TimeScale)
	}
	known := make(map[string]bool, len(builtinGroups)+len(st.Groups))
	for _, g := range builtinGroups {
		known[g.Name] = true
	}
	for _, g := range st.Groups {
		if g.Name == "" {
			return errors.Wrap(ErrInvalidArgument, "group without a name")
		}
		if known[g.Name] {
			return errors.Wrapf(ErrInvalidArgument, "group %q declared twice", g.Name)
		}
		known[g.Name] = true
	}
	if !known[st.DefaultGroup] {
		return errors.Wrapf(ErrInvalidArgument, "defaultGroup %q is not a known group", st.DefaultGroup)
	}
	for name, keys := range st.Curves {
		if _, err := NewCurve(keys...); err != nil {
			return errors.Wrapf(err, "curve %q", name)
		}
	}
	if _, ok := easings[st.DefaultEase]; !ok {
		if _, ok := st.Curves[st.DefaultEase]; !ok {
			return errors.Wrapf(ErrInvalidArgument, "defaultEase %q is neither an easing nor a curve", st.DefaultEase)
		}
	}
	return nil
}

// Option customizes New.
type Option func(*Scheduler)

// WithSettings replaces DefaultSettings.
func WithSettings(st Settings) Option {
	return func(s *Scheduler) {
		s.settings = st
	}
}

// WithLogger sets the diagnostics logger. A nil logger keeps the default,
// which writes to stderr.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}
