package config

import (
	"reflect"
	"sort"
	"sync"
)

// EnvPrefix is shared by every environment variable tagflat reads.
const EnvPrefix = "TAGFLAT_"

// EnvMapping binds an environment variable to a configuration path.
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
}

var (
	envMappings     []EnvMapping
	envMappingsOnce sync.Once
)

// EnvMappings lists the env-tagged fields of Config, sorted by variable name.
func EnvMappings() []EnvMapping {
	envMappingsOnce.Do(func() {
		envMappings = collectEnvTags(reflect.TypeOf(Config{}), "")
		sort.Slice(envMappings, func(i, j int) bool {
			return envMappings[i].EnvVar < envMappings[j].EnvVar
		})
	})
	return envMappings
}

func collectEnvTags(t reflect.Type, prefix string) []EnvMapping {
	var out []EnvMapping
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("koanf")
		if !field.IsExported() || key == "" || key == "-" {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if env := field.Tag.Get("env"); env != "" && env != "-" {
			out = append(out, EnvMapping{EnvVar: env, ConfigPath: path})
		}
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			out = append(out, collectEnvTags(field.Type, path)...)
		}
	}
	return out
}

// EnvVarFor returns the environment variable bound to path, or "".
func EnvVarFor(path string) string {
	for _, m := range EnvMappings() {
		if m.ConfigPath == path {
			return m.EnvVar
		}
	}
	return ""
}

func envToPath() map[string]string {
	mappings := EnvMappings()
	result := make(map[string]string, len(mappings))
	for _, m := range mappings {
		result[m.EnvVar] = m.ConfigPath
	}
	return result
}
