// Package main hosts the dvk CLI entrypoint and command graph.
//
// The Cobra command tree loads DVK archives from the directories given on
// the command line, or from paths.archive_dir, and exposes listing, boolean
// search, sequence linking, audits, renaming, the SQLite catalog and
// exports. Configuration and logging are resolved once per invocation by
// commandContext; commands that rewrite records hold the archive lock for
// their whole run.
package main
