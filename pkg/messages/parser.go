package messages

import (
	"errors"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses YAML content into a message Table.
func ParseYAML(content []byte) (Table, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return Table(data), nil
}

// ParseJSON parses JSON content into a message Table.
func ParseJSON(content []byte) (Table, error) {
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseJSON, err)
	}
	return Table(data), nil
}
