package messages

import "errors"

var (
	// ErrFailedToParseYAML indicates the YAML content could not be parsed into a Table.
	ErrFailedToParseYAML = errors.New("messages: failed to parse YAML content")

	// ErrFailedToParseJSON indicates the JSON content could not be parsed into a Table.
	ErrFailedToParseJSON = errors.New("messages: failed to parse JSON content")
)
