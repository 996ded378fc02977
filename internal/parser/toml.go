package parser

import (
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/imishinist/training-cli/internal/models"
)

func ParseTOMLParams(reader io.Reader) (models.CopyParams, error) {
	var data models.ParamsFile
	decoder := toml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse TOML parameters: %w", err)
	}

	return data.Params, nil
}
