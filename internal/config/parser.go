// Package config loads varplay's configuration from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	varplayerrors "github.com/alexisbeaulieu97/varplay/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// SearchNames are the files looked up in the working directory when no
// --config flag is given, in order.
var SearchNames = []string{"varplay.yaml", "varplay.yml", "varplay.toml"}

// ParseConfig reads the file at path, applies defaults and validates it.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, varplayerrors.NewParseError(path, 0, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
		if err != nil {
			return nil, varplayerrors.NewParseError(path, extractLine(err), err)
		}
	case ".toml":
		err = decodeTOML(data, &cfg)
		if err != nil {
			return nil, varplayerrors.NewParseError(path, tomlLine(err), err)
		}
	default:
		return nil, varplayerrors.NewParseError(path, 0, fmt.Errorf("unsupported configuration file extension %q", ext))
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover returns the first of SearchNames present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range SearchNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Resolve loads explicit when set, otherwise the discovered file in dir,
// otherwise the defaults. It returns the path that was used, or "".
func Resolve(explicit, dir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, ok := Discover(dir)
		if !ok {
			return Default(), "", nil
		}
		path = found
	}
	cfg, err := ParseConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}

func tomlLine(err error) int {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return perr.Position.Line
	}
	return 0
}
