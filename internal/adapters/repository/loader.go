package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadRulesFile reads a stored rule-set document from a YAML (.yaml, .yml)
// or JSON (.json) file. The result is the raw document; pass it through
// rules.Normalize or Store.Put before use.
func LoadRulesFile(path string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadRules, path, err)
		}
		return k.Raw(), nil
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadRules, path, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadRules, path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}
