package diff

import "fmt"

// ConfigurationError reports an invalid ignore pattern. It is raised once at
// load time and is fatal; comparisons never see a half-compiled filter.
type ConfigurationError struct {
	Pattern string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q: %v", e.Pattern, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// MalformedInputError reports a comparison input whose response_data is not a
// JSON object. It is per-file: the caller reports it as a structured failure
// and moves on to other files.
type MalformedInputError struct {
	Side   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input: %s", e.Side, e.Reason)
}
