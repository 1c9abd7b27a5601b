package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vinayprograms/tanager/internal/apperr"
)

// knownNotebookKeys are the notebook fields decoded into NotebookConfig.
var knownNotebookKeys = map[string]bool{
	"path":         true,
	"aliases":      true,
	"template":     true,
	"defaultTitle": true,
	"default":      true,
	"autoCommit":   true,
	"autoPush":     true,
}

type decodeFunc func(data []byte, v any) error

func decoderFor(path string) decodeFunc {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return func(data []byte, v any) error {
			_, err := toml.Decode(string(data), v)
			return err
		}
	case ".yaml", ".yml":
		return yaml.Unmarshal
	default:
		return json.Unmarshal
	}
}

// Load reads a config file. The format follows the extension: .toml,
// .yaml/.yml, and JSON for anything else.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", apperr.ErrConfig, err)
	}
	return Parse(path, data)
}

// Parse decodes config data, choosing the decoder from path's extension.
func Parse(path string, data []byte) (*Config, error) {
	decode := decoderFor(path)

	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %v", apperr.ErrConfig, path, err)
	}

	var raw map[string]any
	if err := decode(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %v", apperr.ErrConfig, path, err)
	}
	captureExtras(cfg, raw)

	return cfg, nil
}

// captureExtras copies undeclared notebook keys into NotebookConfig.Extra.
func captureExtras(cfg *Config, raw map[string]any) {
	notebooks, ok := raw["notebooks"].(map[string]any)
	if !ok {
		return
	}
	for name, nb := range cfg.Notebooks {
		fields, ok := notebooks[name].(map[string]any)
		if !ok {
			continue
		}
		for key, value := range fields {
			if knownNotebookKeys[key] {
				continue
			}
			if nb.Extra == nil {
				nb.Extra = make(map[string]any)
			}
			nb.Extra[key] = value
		}
		cfg.Notebooks[name] = nb
	}
}
