// Package repository implements a versioned, typed repository on top of a
// store.IStore.
//
// Every value is persisted as an envelope
//
//	{"schemaVersion": 3, "payload": {...}}
//
// and every read brings the payload up to the repository's schema version by
// replaying a chain of pure migrations before decoding it.
//
// Recognised stored shapes:
//
//   - Envelope: both "schemaVersion" and "payload" present.
//   - Legacy envelope: exactly the two fields "version" and "value", as written
//     by the first releases of wowa. The stored version is honoured.
//   - Bare payload: anything else. Records written before envelopes existed
//     are treated as schema version 1.
//
// Migration Chain:
//
//	A repository for version T is configured with T-1 migrations. Migration i
//	maps version i+1 to i+2, so a record stored at version v < T is passed
//	through migrations v-1 .. T-2 in order. A record stored at v > T fails with
//	a *SchemaError wrapping ErrCannotDowngrade: newer data is never truncated
//	to fit older code.
//
// Usage Example:
//
//	type bookmarkV1 struct{ URL string `json:"url"` }
//	type Bookmark struct{ URLs []string `json:"urls"` }
//
//	repo, err := repository.New[Bookmark](s, 2, []repository.Migration{
//	    repository.Migrate(func(b bookmarkV1) Bookmark { return Bookmark{URLs: []string{b.URL}} }),
//	})
//	_ = repo.Set(store.Key{"bookmarks", "home"}, Bookmark{URLs: []string{"https://example.com"}})
//	b, found, err := repo.Get(store.Key{"bookmarks", "home"})
package repository
