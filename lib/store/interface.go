package store

import (
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Keys
// --------------------------------------------------------------------------

// Key is a compound key made of ordered string segments,
// e.g. Key{"packages", "retail", "sharedmedia"}.
type Key []string

// Equal reports whether both keys have the same length and equal segments.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix equals the first len(prefix) segments of k.
// The empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return Key(k[:len(prefix)]).Equal(prefix)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface of the flat key–value store. Values are opaque strings.
// Every method of an implementation is mutually exclusive with every other method
// on the same instance, callers may use a store from many goroutines freely.
//
// Calling any method other than Init before Init is a programmer error and panics
// with ErrNotInitialized.
type IStore interface {
	// Init binds the store to the file at path. If the file exists its entries are loaded,
	// otherwise the store starts empty. Calling Init twice returns an *Error with RetCAlreadyInitialized.
	Init(path string) (err error)
	// Get returns the value for key. The boolean return value indicates whether a value was found.
	Get(key Key) (value string, found bool, err error)
	// GetByPrefix returns the values of every entry whose key starts with prefix.
	// Callers must not rely on the order of the returned values.
	GetByPrefix(prefix Key) (values []string, err error)
	// Set inserts or replaces the value for key and writes the store through to disk.
	Set(key Key, value string) (err error)
	// Delete removes the entry for key (if any) and writes the store through to disk.
	Delete(key Key) (err error)
}

// Factory creates a new, uninitialized store.
type Factory func() IStore

// ErrNotInitialized is the panic value used when a store is used before Init.
var ErrNotInitialized = errors.New("the store is not initialized yet")

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the underlying cause.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
	Err  error   // The underlying cause, may be nil.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("store error (code %s): %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new store error with the given code and message.
func NewError(code RetCode, msg string, cause error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  cause,
	}
}

// IsCode reports whether err is (or wraps) a store *Error with the given code.
func IsCode(err error, code RetCode) bool {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code == code
	}
	return false
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess            RetCode = iota // 0: Command executed successfully.
	RetCInternalError                     // 1: Command failed due to an internal error.
	RetCIOError                           // 2: Reading or writing the store file failed.
	RetCAlreadyInitialized                // 3: Init was called on an initialized store.
	RetCCorrupted                         // 4: The store file could not be decoded.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCIOError:
		return "IOError"
	case RetCAlreadyInitialized:
		return "AlreadyInitialized"
	case RetCCorrupted:
		return "Corrupted"
	default:
		return "Unknown"
	}
}
