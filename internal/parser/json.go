package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/imishinist/training-cli/internal/models"
)

func ParseJSONParams(reader io.Reader) (models.CopyParams, error) {
	var data models.ParamsFile
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON parameters: %w", err)
	}

	return data.Params, nil
}
