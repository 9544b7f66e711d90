package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. BROWSER_CLI_BACKEND.
const EnvPrefix = "BROWSER_CLI"

// File is the on-disk configuration. Each field can be overridden with an
// environment variable named EnvPrefix + "_" + its env tag.
type File struct {
	Backend   string `yaml:"backend"    env:"BACKEND"`
	RemoteURL string `yaml:"remote_url" env:"REMOTE_URL"`
	Browser   string `yaml:"browser"    env:"BROWSER"`
	Headless  bool   `yaml:"headless"   env:"HEADLESS"`

	Timeout   string        `yaml:"timeout"   env:"TIMEOUT"` // milliseconds
	Marker    string        `yaml:"marker"    env:"MARKER"`
	Ajax      string        `yaml:"ajax"      env:"AJAX"` // preset name or expression
	Highlight *bool         `yaml:"highlight" env:"HIGHLIGHT"`
	Interval  time.Duration `yaml:"interval"  env:"INTERVAL"`

	Log LogConfig `yaml:"log" env:"LOG"`

	ScreenshotDir string `yaml:"screenshot_dir" env:"SCREENSHOT_DIR"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *File {
	return &File{
		Backend:       "selenium",
		Headless:      true,
		Timeout:       DefaultTimeout,
		Marker:        DefaultMarker,
		Log:           LogConfig{Level: "info", Format: "console"},
		ScreenshotDir: "screenshots",
	}
}

// Loader reads a File: defaults, then the YAML file, then the environment.
type Loader struct {
	path      string
	envPrefix string
	getenv    func(string) string
}

// NewLoader returns a Loader using EnvPrefix and the process environment.
func NewLoader() *Loader {
	return &Loader{envPrefix: EnvPrefix, getenv: os.Getenv}
}

// WithPath sets the YAML file to read. A missing file is not an error.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load builds the configuration.
func (l *Loader) Load() (*File, error) {
	cfg := Defaults()
	if l.path != "" {
		if err := l.loadFile(cfg); err != nil {
			return nil, err
		}
	}
	if err := setFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix, l.getenv); err != nil {
		return nil, fmt.Errorf("config from env: %w", err)
	}
	if _, err := ParseMillis(cfg.Timeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(cfg *File) error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", l.path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", l.path, err)
	}
	return nil
}

func setFromEnv(v reflect.Value, prefix string, getenv func(string) string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tag := t.Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + "_" + tag
		if field.Kind() == reflect.Struct {
			if err := setFromEnv(field, key, getenv); err != nil {
				return err
			}
			continue
		}
		value := getenv(key)
		if value == "" {
			continue
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int64:
		if field.Type() != reflect.TypeOf(time.Duration(0)) {
			return fmt.Errorf("unsupported field type %s", field.Type())
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case reflect.Ptr:
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported field type %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
