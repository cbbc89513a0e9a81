// Package audit finds inconsistencies in a loaded archive: records sharing
// an identity, records whose media is missing, media no record refers to,
// and media files with identical content.
//
// Every check returns absolute paths in a stable order so results can be
// printed or compared directly. Long-running checks report progress through
// an optional callback.
package audit
