package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envRef matches ${VAR} and ${VAR:-default} references in the raw
// YAML. A default may contain any character except an unescaped
// closing brace.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads the YAML configuration at path. Environment references
// are expanded before parsing, so secrets like the bot token and the
// tracking API key never have to live in the file itself.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, missing := expandEnv(raw)
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: %s references unset variables without defaults: %s",
			path, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// expandEnv substitutes every environment reference and returns the
// names that resolved to nothing: unset, with no default to fall back
// on.
func expandEnv(raw []byte) ([]byte, []string) {
	var missing []string

	expanded := envRef.ReplaceAllFunc(raw, func(ref []byte) []byte {
		groups := envRef.FindSubmatch(ref)
		name := string(groups[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if groups[2] != nil {
			return groups[2]
		}

		missing = append(missing, name)
		return ref
	})

	return expanded, missing
}
