// Package dvk models a single DVK metadata record: the JSON sidecar that
// describes one archived media file.
//
// A Record normalizes its values as they are set. Identities are uppercased,
// artists are de-duplicated and sorted, times are kept in the fixed-width
// "YYYY/MM/DD|hh:mm" layout, and sequence links distinguish "not in a
// sequence" (nil) from "first or last in a sequence" (empty). The zero Record
// is a valid default record.
//
// Load and Write move records between memory and disk. A file that cannot be
// parsed loads as a default record rather than a partially filled one.
package dvk
