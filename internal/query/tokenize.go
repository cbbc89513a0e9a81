package query

import "strings"

const whitespace = " \t\r\n"

// Tokenize splits a query string into tokens.
func Tokenize(query string) []Token {
	var tokens []Token
	s := strings.Trim(query, whitespace)
	for s != "" {
		switch c := s[0]; c {
		case '!', '-':
			tokens = append(tokens, Token{Kind: Not})
			s = s[1:]
		case '&', '+':
			tokens = append(tokens, Token{Kind: And})
			s = s[1:]
		case '|', '~':
			tokens = append(tokens, Token{Kind: Or})
			s = s[1:]
		case '(', '[':
			tokens = append(tokens, Token{Kind: LParen})
			s = s[1:]
		case ')', ']':
			tokens = append(tokens, Token{Kind: RParen})
			s = s[1:]
		case '\'', '"', '=':
			// Quoted text runs to the matching character, or to the end of
			// the query when unterminated.
			end := strings.IndexByte(s[1:], c)
			if end == -1 {
				tokens = append(tokens, Word(s[1:]))
				s = ""
				break
			}
			tokens = append(tokens, Word(s[1:end+1]))
			s = s[end+2:]
		default:
			end := strings.IndexAny(s, " )]")
			if end == -1 {
				end = len(s)
			}
			tokens = append(tokens, keyword(s[:end]))
			s = s[end:]
		}
		s = strings.TrimLeft(s, whitespace)
	}
	return tokens
}

func keyword(word string) Token {
	switch strings.ToLower(word) {
	case "and":
		return Token{Kind: And}
	case "or":
		return Token{Kind: Or}
	case "not":
		return Token{Kind: Not}
	default:
		return Word(word)
	}
}
