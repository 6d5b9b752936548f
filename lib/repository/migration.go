package repository

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Migration maps a payload of schema version n to schema version n+1.
// Migrations must be pure: the output depends only on the input.
type Migration func(payload json.RawMessage) (json.RawMessage, error)

// Migrate adapts a typed, pure mapping between two payload shapes to a Migration.
func Migrate[From, To any](fn func(From) To) Migration {
	return func(payload json.RawMessage) (json.RawMessage, error) {
		var from From
		if err := json.Unmarshal(payload, &from); err != nil {
			return nil, err
		}
		return json.Marshal(fn(from))
	}
}

// ErrCannotDowngrade is wrapped by SchemaError when a stored record is newer
// than the schema version the reading code understands.
var ErrCannotDowngrade = errors.New("cannot downgrade the record version")

// SchemaError reports a stored record that cannot be brought to the target version.
type SchemaError struct {
	Stored int   // schema version of the stored record
	Target int   // schema version of the repository
	Err    error // cause
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema version %d cannot be read as version %d: %v", e.Stored, e.Target, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// applyMigrations brings rec up to target using migrations, where
// migrations[i] maps version i+1 to version i+2.
func applyMigrations(rec storedRecord, target int, migrations []Migration) (json.RawMessage, error) {
	if rec.version > target {
		return nil, &SchemaError{Stored: rec.version, Target: target, Err: ErrCannotDowngrade}
	}

	payload := rec.payload
	for i, migrate := range migrations[rec.version-1 : target-1] {
		from := rec.version + i
		next, err := migrate(payload)
		if err != nil {
			return nil, &SchemaError{
				Stored: rec.version,
				Target: target,
				Err:    fmt.Errorf("migration %d -> %d failed: %w", from, from+1, err),
			}
		}
		payload = next
	}
	return payload, nil
}
