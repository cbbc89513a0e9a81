// Package catalog mirrors archive records into a SQLite database so they can
// be summarized and searched without re-reading every DVK file.
//
// Each Sync replaces the catalog contents with the records of a loaded
// archive inside one transaction and tags the rows with a run identifier.
// Media digests are optional because hashing large archives is slow. The
// schema carries a version row; opening a database written by another
// version fails with ErrSchemaMismatch rather than migrating it.
package catalog
