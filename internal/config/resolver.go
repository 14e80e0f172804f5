package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/tailcfg/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from the settings file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records how one settings key was resolved.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Flags carries command-line overrides. nil pointers and empty strings mean
// the flag was not given.
type Flags struct {
	Strict        *bool
	ExpandPalette *bool
	Timestamps    *bool
	Format        string
	OutPath       string
	ContentRoot   string
}

// ConfigPathEnv names the settings file when --config is absent.
const ConfigPathEnv = EnvPrefix + "_CONFIG"

// ResolveConfigPath resolves the settings file path using precedence:
// (1) --config flag, (2) TAILCFG_CONFIG env, (3) ./tailcfg.yaml.
func ResolveConfigPath(flagValue string) ResolvedValue {
	rv := ResolvedValue{Key: "config", Shadowed: make(map[ConfigSource]any)}
	envValue := os.Getenv(ConfigPathEnv)

	switch {
	case flagValue != "":
		rv.Value, rv.Source = flagValue, SourceFlag
		if envValue != "" {
			rv.Shadowed[SourceEnv] = envValue
		}
		rv.Shadowed[SourceDefault] = DefaultFile
	case envValue != "":
		rv.Value, rv.Source = envValue, SourceEnv
		rv.Shadowed[SourceDefault] = DefaultFile
	default:
		rv.Value, rv.Source = DefaultFile, SourceDefault
	}
	return rv
}

// Resolve merges flags over the environment over the settings file over the
// defaults, key by key, and records each decision.
func Resolve(src *Sources, flags Flags) (*Settings, []ResolvedValue) {
	r := &resolution{src: src}
	s := &Settings{}

	s.Fragments = resolveKey(r, "fragments", nil, getFragments)
	s.Strict = resolveKey(r, "strict", flags.Strict, (*viper.Viper).GetBool)
	s.ExpandPalette = resolveKey(r, "expandPalette", flags.ExpandPalette, (*viper.Viper).GetBool)
	s.ContentRoot = resolveKey(r, "contentRoot", stringFlag(flags.ContentRoot), (*viper.Viper).GetString)
	s.Output.Format = resolveKey(r, "output.format", stringFlag(flags.Format), (*viper.Viper).GetString)
	s.Output.Path = resolveKey(r, "output.path", stringFlag(flags.OutPath), (*viper.Viper).GetString)
	s.Log.Timestamps = resolveKey(r, "log.timestamps", flags.Timestamps, (*viper.Viper).GetBool)

	return s, r.values
}

type resolution struct {
	src    *Sources
	values []ResolvedValue
}

// resolveKey picks the first layer that sets key in the order flag, env,
// config, default. Lower layers that also set it are recorded as shadowed.
func resolveKey[T any](r *resolution, key string, flag *T, get func(*viper.Viper, string) T) T {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	var value T
	decided := false

	offer := func(source ConfigSource, v T) {
		if decided {
			rv.Shadowed[source] = v
			return
		}
		value, rv.Value, rv.Source, decided = v, v, source, true
	}

	if flag != nil {
		offer(SourceFlag, *flag)
	}
	if r.src.inEnv(key) {
		offer(SourceEnv, get(r.src.env, key))
	}
	if r.src.inFile(key) {
		offer(SourceConfig, get(r.src.file, key))
	}
	offer(SourceDefault, keys[key].(T))

	r.values = append(r.values, rv)
	return value
}

func stringFlag(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// getFragments reads a list from YAML, or a comma-separated env value.
func getFragments(v *viper.Viper, key string) []string {
	raw := v.Get(key)
	if s, ok := raw.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return v.GetStringSlice(key)
}

// LogResolvedValues logs every settings resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
