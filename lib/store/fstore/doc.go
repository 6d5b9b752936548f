// Package fstore implements store.IStore on top of a single JSON file.
//
// All entries are held in memory as an ordered list of {key, value} pairs and
// the whole list is written back to disk after every Set or Delete. There is
// no write batching and no append log: the file on disk always contains the
// complete state after the last successful mutation.
//
// File Format:
//
//	[
//	  { "key": ["packages", "retail", "weakauras-2"], "value": "{...}" },
//	  { "key": ["config", "game.dir"], "value": "/games/wow" }
//	]
//
// Implementation Details:
//
//   - Upsert: Set replaces an existing entry with an equal key in place or
//     appends a new entry. At most one entry exists per distinct key.
//
//   - Delete: entries are removed physically, there are no tombstones, so
//     prefix scans never see deleted keys.
//
//   - Durability: the encoded list is written to "<path>.tmp" and renamed over
//     the destination. Parent directories are created on demand.
//
//   - File System: the store works on an afero.Fs. Production code uses the
//     operating system file system, tests use afero.NewMemMapFs().
//
// Thread Safety:
//
//	A single sync.Mutex guards every operation of an instance, including the
//	disk write. Operations are therefore observed one at a time in lock
//	order and concurrent writers can never lose each other's updates.
//
// Usage Example:
//
//	s := fstore.NewFileStore(nil)
//	if err := s.Init("/home/me/.config/wowa/wowa.json"); err != nil {
//	    // handle error
//	}
//	_ = s.Set(store.Key{"config", "game.dir"}, "/games/wow")
//	dir, found, err := s.Get(store.Key{"config", "game.dir"})
package fstore
