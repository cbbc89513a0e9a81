package query

import "slices"

// Repair returns a corrected copy of tokens:
//   - leading AND/OR and trailing AND/OR/NOT are dropped;
//   - missing parentheses are added at the ends;
//   - AND is inserted between adjacent terms;
//   - an empty term fills the gap after an operator followed by AND/OR, and
//     between two NOTs.
func Repair(tokens []Token) []Token {
	fixed := slices.Clone(tokens)
	for len(fixed) > 0 && isBinary(fixed[0]) {
		fixed = fixed[1:]
	}
	for len(fixed) > 0 && (isBinary(fixed[len(fixed)-1]) || fixed[len(fixed)-1].Kind == Not) {
		fixed = fixed[:len(fixed)-1]
	}
	if len(fixed) == 0 {
		return nil
	}

	fixed = balanceParens(fixed)
	fixed = insertImplicitAnd(fixed)
	return fillEmptyOperands(fixed)
}

// balanceParens closes every group opened after the first "(" and opens
// every group closed before the last ")".
func balanceParens(tokens []Token) []Token {
	if first := slices.IndexFunc(tokens, isKind(LParen)); first != -1 {
		open, closed := 1, 0
		for _, tok := range tokens[first+1:] {
			switch tok.Kind {
			case LParen:
				open++
			case RParen:
				closed++
			}
		}
		for range open - closed {
			tokens = append(tokens, Token{Kind: RParen})
		}
	}
	if last := lastIndex(tokens, RParen); last != -1 {
		open, closed := 0, 1
		for _, tok := range tokens[:last] {
			switch tok.Kind {
			case LParen:
				open++
			case RParen:
				closed++
			}
		}
		if missing := closed - open; missing > 0 {
			prefix := make([]Token, missing)
			for i := range prefix {
				prefix[i] = Token{Kind: LParen}
			}
			tokens = append(prefix, tokens...)
		}
	}
	return tokens
}

func insertImplicitAnd(tokens []Token) []Token {
	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1], tokens[i]
		closesTerm := prev.IsText() || prev.Kind == RParen
		if closesTerm && (cur.IsText() || cur.Kind == LParen || cur.Kind == Not) {
			tokens = slices.Insert(tokens, i, Token{Kind: And})
		}
	}
	return tokens
}

func fillEmptyOperands(tokens []Token) []Token {
	for i := 0; i < len(tokens)-1; i++ {
		cur, next := tokens[i], tokens[i+1]
		if (isBinary(cur) || cur.Kind == Not) && isBinary(next) {
			tokens = slices.Insert(tokens, i+1, Word(""))
		}
		if cur.Kind == Not && tokens[i+1].Kind == Not {
			tokens = slices.Insert(tokens, i+1, Word(""))
		}
	}
	return tokens
}

func isBinary(tok Token) bool { return tok.Kind == And || tok.Kind == Or }

func isKind(kind Kind) func(Token) bool {
	return func(tok Token) bool { return tok.Kind == kind }
}

func lastIndex(tokens []Token, kind Kind) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind == kind {
			return i
		}
	}
	return -1
}
