package repository

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Stored record shapes
// --------------------------------------------------------------------------

// envelope is the shape every record is written in.
type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Payload       json.RawMessage `json:"payload"`
}

// recordKind tags how a raw stored value was recognised.
type recordKind int

const (
	// kindEnvelope is {"schemaVersion": n, "payload": ...}
	kindEnvelope recordKind = iota
	// kindLegacyEnvelope is exactly {"version": n, "value": ...}, written by the first releases
	kindLegacyEnvelope
	// kindBare is a payload stored without any envelope, always schema version 1
	kindBare
)

func (k recordKind) String() string {
	switch k {
	case kindEnvelope:
		return "envelope"
	case kindLegacyEnvelope:
		return "legacy envelope"
	case kindBare:
		return "bare"
	default:
		return "unknown"
	}
}

// storedRecord is the decoded form of a raw stored value.
type storedRecord struct {
	kind    recordKind
	version int
	payload json.RawMessage
}

// decodeRecord classifies raw into one of the known record kinds.
func decodeRecord(raw string) (storedRecord, error) {
	if !json.Valid([]byte(raw)) {
		return storedRecord{}, fmt.Errorf("stored record is not valid JSON")
	}

	// arrays, strings and numbers can only be bare payloads
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return bare(raw), nil
	}

	if rawVersion, ok := fields["schemaVersion"]; ok {
		if payload, ok := fields["payload"]; ok {
			return versioned(kindEnvelope, rawVersion, payload)
		}
	}

	if len(fields) == 2 {
		rawVersion, hasVersion := fields["version"]
		value, hasValue := fields["value"]
		if hasVersion && hasValue {
			return versioned(kindLegacyEnvelope, rawVersion, value)
		}
	}

	return bare(raw), nil
}

func bare(raw string) storedRecord {
	return storedRecord{kind: kindBare, version: 1, payload: json.RawMessage(raw)}
}

func versioned(kind recordKind, rawVersion, payload json.RawMessage) (storedRecord, error) {
	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return storedRecord{}, fmt.Errorf("invalid schema version in %s: %w", kind, err)
	}
	if version < 1 {
		return storedRecord{}, fmt.Errorf("invalid schema version %d in %s", version, kind)
	}
	return storedRecord{kind: kind, version: version, payload: payload}, nil
}

// encodeRecord wraps payload in an envelope stamped with version.
func encodeRecord(version int, payload any) (string, error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(envelope{SchemaVersion: version, Payload: rawPayload})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
