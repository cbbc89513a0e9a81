// Package textutil holds the string handling shared by the archive: natural
// ("alphanumeric") ordering, HTML entity escaping for free text, filename
// tokens derived from record titles, and display helpers for paths.
//
// CompareAlphanum is the ordering used by every record comparator. It splits a
// string into text and numeric sections so that "Thing 5" sorts before
// "Thing 20" and "v1.2.10" after "v1.2.02"; text sections compare
// case-insensitively.
package textutil
