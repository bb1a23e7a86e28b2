// Package catalogindex persists a parsed catalog in SQLite so repeat runs
// skip re-parsing the metadata XML.
//
// LaunchBox catalogs run to hundreds of megabytes of XML; parsing one takes
// far longer than loading the same rows from SQLite. The index records the
// source file's path, size, and modification time, and is considered stale
// (and rebuilt) whenever any of those change. `boxart index rebuild` forces a
// rebuild and `boxart index clear` drops the rows.
//
// The database is a disposable cache, not an archive. Schema changes bump the
// version in schema.go; a mismatched database is reported with instructions
// to clear it.
package catalogindex
