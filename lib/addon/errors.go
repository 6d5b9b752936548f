package addon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no candidate or no release for the
	// requested variant exists.
	ErrNotFound = errors.New("package not found")
	// ErrAmbiguous is returned when more than one candidate matches an
	// identifier that must be unique.
	ErrAmbiguous = errors.New("identifier matches more than one package")
	// ErrUnsupportedIdentifier is returned when no catalog accepts an identifier.
	ErrUnsupportedIdentifier = errors.New("no catalog supports this identifier")
)

// ConfigError reports a missing or invalid setting.
type ConfigError struct {
	Setting string
	Msg     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Msg)
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
