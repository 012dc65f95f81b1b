package network

import (
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type registryFile struct {
	Networks map[string]*Network `yaml:"networks" validate:"required,min=1,dive,required"`
}

// LoadFile reads a YAML network registry from path. Struct defaults are applied
// before validation.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML network registry.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse networks file: %w", err)
	}

	for key, n := range file.Networks {
		if n == nil {
			return nil, fmt.Errorf("network %s: empty definition", key)
		}
		if err := defaults.Set(n); err != nil {
			return nil, fmt.Errorf("network %s: failed to apply defaults: %w", key, err)
		}
		tokens := make(map[string]Token, len(n.Tokens))
		for tokenKey, t := range n.Tokens {
			if err := defaults.Set(&t); err != nil {
				return nil, fmt.Errorf("network %s token %s: failed to apply defaults: %w", key, tokenKey, err)
			}
			tokens[strings.ToLower(tokenKey)] = t
		}
		n.Tokens = tokens
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid networks file: %w", err)
	}
	return NewRegistry(file.Networks), nil
}
