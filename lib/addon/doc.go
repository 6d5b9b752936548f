/*
Package addon implements installed package records and the manager that
reconciles them with remote catalogs and the game's install directories.

Records are persisted through a Repository keyed by
["packages", variant, id]. Older record shapes are migrated on read, see
SchemaVersion.

The Manager decides for every install attempt whether the package has to
be installed, updated, reinstalled or is already current:

	no record                            -> installed
	record with another version label    -> updated
	same label, a directory is missing   -> reinstalled
	same label, all directories present  -> already-installed (no download)

On install the previous version's directories are removed before the new
archive is extracted, so no files of an old version survive an update.
Operations on the same package and variant are serialized, different
packages own disjoint directories and run concurrently in UpdateAll.

The package never logs. Failures are returned as errors, ErrNotFound,
ErrAmbiguous and *ConfigError can be matched with errors.Is and errors.As.
*/
package addon
