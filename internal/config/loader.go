package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by tailcfg.
const EnvPrefix = "TAILCFG"

// keys lists every settings key with its default.
var keys = map[string]any{
	"fragments":      []string{},
	"strict":         false,
	"expandPalette":  true,
	"contentRoot":    ".",
	"output.format":  "js",
	"output.path":    "",
	"log.timestamps": true,
}

// envAliases lists extra environment names accepted for a key.
var envAliases = map[string][]string{
	"output.format": {EnvPrefix + "_OUTPUT"},
}

// Sources holds the settings layers read from disk and the environment.
type Sources struct {
	// Path is the settings file that was read or looked for.
	Path string

	// Found reports whether the settings file exists.
	Found bool

	file *viper.Viper
	env  *viper.Viper
}

// Dir returns the directory relative settings paths are anchored at.
func (s *Sources) Dir() string {
	return filepath.Dir(s.Path)
}

// Loader reads settings layers.
type Loader struct{}

// NewLoader creates a new settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the settings file at path, if present, and binds the
// TAILCFG_* environment. A missing file is not an error.
func (l *Loader) Load(path string) (*Sources, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	file := viper.New()
	for key, def := range keys {
		file.SetDefault(key, def)
	}
	file.SetConfigFile(expanded)
	file.SetConfigType("yaml")

	found := true
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", expanded, err)
		}
		found = false
	}

	env := viper.New()
	env.SetEnvPrefix(EnvPrefix)
	env.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key := range keys {
		names := []string{key}
		if aliases, ok := envAliases[key]; ok {
			names = append(names, aliases...)
			names = append(names, EnvName(key))
		}
		if err := env.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return &Sources{Path: expanded, Found: found, file: file, env: env}, nil
}

// FileSettings returns the settings from the file layer with defaults,
// ignoring the environment and flags.
func (s *Sources) FileSettings() (*Settings, error) {
	var cfg Settings
	if err := s.file.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// inFile reports whether the settings file sets key.
func (s *Sources) inFile(key string) bool {
	return s.Found && s.file.InConfig(key)
}

// inEnv reports whether TAILCFG_<KEY> is set.
func (s *Sources) inEnv(key string) bool {
	return s.env.IsSet(key)
}

// EnvName returns the environment variable for a settings key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
