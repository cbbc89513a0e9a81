package query

// Kind classifies a token.
type Kind int

const (
	Text Kind = iota
	Not
	And
	Or
	LParen
	RParen
)

// Token is one element of a tokenized query.
type Token struct {
	Kind Kind
	Text string
}

var glyphs = map[Kind]string{
	Not:    "!",
	And:    "&",
	Or:     "|",
	LParen: "(",
	RParen: ")",
}

// String returns the text of a Text token and the canonical glyph of an
// operator.
func (t Token) String() string {
	if g, ok := glyphs[t.Kind]; ok {
		return g
	}
	return t.Text
}

// IsText reports whether t is a search term rather than an operator.
func (t Token) IsText() bool { return t.Kind == Text }

// Word returns a Text token.
func Word(text string) Token { return Token{Kind: Text, Text: text} }

// Classify maps a canonical glyph to its operator token. Any other string,
// including the empty string, is a Text token.
func Classify(chunk string) Token {
	for kind, g := range glyphs {
		if chunk == g {
			return Token{Kind: kind}
		}
	}
	return Word(chunk)
}

// FromStrings classifies each string with Classify.
func FromStrings(chunks []string) []Token {
	tokens := make([]Token, len(chunks))
	for i, chunk := range chunks {
		tokens[i] = Classify(chunk)
	}
	return tokens
}

// Strings renders tokens with Token.String.
func Strings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}
