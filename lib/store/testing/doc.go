// Package testing provides standardised tests and benchmarks for
// store implementations that satisfy the store.IStore interface.
//
// The package contains:
//   - RunStoreTests: a conformance suite covering exact and prefix reads,
//     upsert and delete semantics, the Init lifecycle, persistence across
//     instances and lost-update freedom under concurrent writers
//   - RunStoreBenchmarks: throughput of Set, Get and GetByPrefix
//
// Example usage:
//
//	fs := afero.NewMemMapFs()
//	factory := func() store.IStore {
//		return fstore.NewFileStore(fs)
//	}
//
//	storetesting.RunStoreTests(t, "FileStore", factory)
//	storetesting.RunStoreBenchmarks(b, "FileStore", factory)
package testing
