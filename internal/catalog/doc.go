// Package catalog models the LaunchBox metadata catalog: games keyed by
// database ID, grouped by platform, each with zero or more image references.
//
// The catalog is loaded either by streaming the Metadata.xml file (Parse) or
// from the SQLite index maintained by the catalogindex package. Rows missing
// a database ID, name, or file name are dropped during construction so the
// download engine never sees malformed records.
//
// Catalogs are immutable after construction and safe for concurrent reads.
package catalog
