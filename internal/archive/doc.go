// Package archive indexes DVK records spread across a directory tree.
//
// A Collection holds the records of one directory. The Aggregator discovers
// every directory under a set of roots, loads one Collection per directory,
// and maintains a single sort index over all of them so callers can address
// records by a global position. Each directory is sorted stably, then the
// per-directory orders are merged pairwise into the global order.
//
// The package also links records into sequences (doubly linked lists of
// identities stored in each record), renames records to their canonical file
// names, and guards mutating commands with a process lock.
package archive
