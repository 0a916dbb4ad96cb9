package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Setting keys.
const (
	KeyPDFOutputDir = "pdf_output_dir"
	KeyFontPath     = "font_path"
	KeyClinicTitle  = "clinic_title"
)

// Settings are the user preferences persisted across restarts.
type Settings struct {
	PDFOutputDir string `yaml:"pdf_output_dir,omitempty"`
	FontPath     string `yaml:"font_path,omitempty"`
	ClinicTitle  string `yaml:"clinic_title,omitempty"`
}

func (s *Settings) field(key string) (*string, bool) {
	switch key {
	case KeyPDFOutputDir:
		return &s.PDFOutputDir, true
	case KeyFontPath:
		return &s.FontPath, true
	case KeyClinicTitle:
		return &s.ClinicTitle, true
	}
	return nil, false
}

// SettingsStore is a small key-value store backed by a YAML file.
type SettingsStore struct {
	path     string
	defaults Settings
	saved    Settings
}

// DefaultSettings returns the defaults for a data directory.
func DefaultSettings(p Paths) Settings {
	return Settings{PDFOutputDir: p.PDFDir, ClinicTitle: AppName}
}

// LoadSettings reads path. A missing file yields the defaults.
func LoadSettings(path string, defaults Settings) (*SettingsStore, error) {
	s := &SettingsStore{path: path, defaults: defaults}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.saved); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Keys lists the known setting keys in sorted order.
func Keys() []string {
	keys := []string{KeyPDFOutputDir, KeyFontPath, KeyClinicTitle}
	sort.Strings(keys)
	return keys
}

// Get returns the effective value of key: the saved value, else the default.
func (s *SettingsStore) Get(key string) (string, error) {
	saved, ok := s.saved.field(key)
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	if *saved != "" {
		return *saved, nil
	}
	def, _ := s.defaults.field(key)
	return *def, nil
}

// Set stores value under key and writes the file. An empty value restores
// the default.
func (s *SettingsStore) Set(key, value string) error {
	saved, ok := s.saved.field(key)
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	prev := *saved
	*saved = value
	if err := s.save(); err != nil {
		*saved = prev
		return err
	}
	return nil
}

// Effective returns every setting with defaults applied.
func (s *SettingsStore) Effective() Settings {
	var out Settings
	for _, key := range Keys() {
		v, _ := s.Get(key)
		f, _ := out.field(key)
		*f = v
	}
	return out
}

func (s *SettingsStore) save() error {
	data, err := yaml.Marshal(&s.saved)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
