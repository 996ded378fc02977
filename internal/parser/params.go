package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/imishinist/training-cli/internal/models"
)

// ParseParamsFile picks a decoder from the file extension.
func ParseParamsFile(path string, reader io.Reader) (models.CopyParams, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		return ParseJSONParams(reader)
	case ".yaml", ".yml":
		return ParseYAMLParams(reader)
	case ".toml":
		return ParseTOMLParams(reader)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .json, .yaml, .yml, .toml)", ext)
	}
}

// ParseKeyValues parses key=value pairs. Later pairs override earlier ones.
func ParseKeyValues(pairs []string) (models.CopyParams, error) {
	params := make(models.CopyParams, len(pairs))
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid parameter format: %s (expected key=value)", pair)
		}
		params[strings.TrimSpace(parts[0])] = parts[1]
	}
	return params, nil
}
