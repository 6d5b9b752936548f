// Package store defines the flat key–value store used as the single source of
// truth for everything wowa persists locally: installed package records and
// configuration values.
//
// The package focuses on:
//   - A small interface (IStore) for exact, prefix and upsert/delete access
//   - Compound keys (Key) made of ordered string segments
//   - A structured error type with return codes
//
// Key Components:
//
//   - Key: An ordered list of segments. Two keys are equal iff they have the
//     same length and equal segments. A key P is a prefix of K iff P equals
//     the first len(P) segments of K. Namespacing (e.g. "packages" or
//     "config") is done exclusively through the first segment.
//
//   - IStore Interface: Exposes Init, Get, GetByPrefix, Set and Delete.
//     Every call on one instance is mutually exclusive with every other call
//     on the same instance. Writes are write-through, the backing file is
//     rewritten completely after every mutation.
//
//   - Error System: I/O and decoding failures are reported as *Error with a
//     RetCode, wrapping the underlying cause so errors.Is / errors.As keep
//     working. Using a store before Init is a programmer error and panics.
//
// Implementations:
//
//	- File Store (fstore): keeps all entries in memory and persists them as
//	  a JSON array of {key, value} objects in one file.
//	  Available in the "github.com/wowa-cli/wowa/lib/store/fstore" package.
//
// Multi-process access to the same file is not supported: the last writer
// wins and no merge takes place.
package store
