// Package query implements the boolean search language used to filter
// records.
//
// A query string passes through four stages: Tokenize splits it into words,
// quoted phrases and operator glyphs; Repair drops dangling operators,
// balances parentheses and inserts the implicit AND between adjacent terms;
// Build turns the repaired tokens into a right-associative Node tree; and
// Evaluate tests a subject string against the tree. Parse runs the first
// three stages. Malformed input never panics: it yields a nil tree, which
// matches nothing.
//
// Operators are written as words (and, or, not) or glyphs (& + for AND,
// | ~ for OR, ! - for NOT). Parentheses may be round or square. Text inside
// matching ' " or = characters is taken literally.
package query
