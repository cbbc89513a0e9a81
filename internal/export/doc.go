// Package export writes the records of an archive as a single JSON array,
// optionally zstd compressed, and reads such exports back.
package export
