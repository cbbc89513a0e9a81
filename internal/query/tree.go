package query

// Op joins the two operands of a Node.
type Op int

const (
	// OpNone marks a node without a right operand, or one whose operator
	// slot held something other than AND/OR. Such a node evaluates to its
	// left operand.
	OpNone Op = iota
	OpAnd
	OpOr
)

// Term is a node operand: either literal text or a nested node.
type Term struct {
	Text string
	Sub  *Node
}

// Node is one level of a parsed query. Chains of operators nest to the
// right, so "a & b | c" is a & (b | c).
type Node struct {
	Left        Term
	InvertLeft  bool
	Right       *Term
	InvertRight bool
	Op          Op
}

// Parse tokenizes, repairs and builds query. It returns nil when nothing
// usable remains.
func Parse(query string) *Node {
	return Build(Repair(Tokenize(query)))
}

// Build constructs a tree from repaired tokens. Malformed input, such as an
// operator without a right operand or an unbalanced group, yields nil.
func Build(tokens []Token) *Node {
	n, ok := newParser(tokens).chain(0, len(tokens))
	if !ok {
		return nil
	}
	return n
}

// parser walks the token slice once. closing holds the index of the ")"
// matching each "(", or -1 when it has none.
type parser struct {
	tokens  []Token
	closing []int
}

func newParser(tokens []Token) *parser {
	p := &parser{tokens: tokens, closing: make([]int, len(tokens))}
	var open []int
	for i, tok := range tokens {
		p.closing[i] = -1
		switch tok.Kind {
		case LParen:
			open = append(open, i)
		case RParen:
			if len(open) > 0 {
				p.closing[open[len(open)-1]] = i
				open = open[:len(open)-1]
			}
		}
	}
	return p
}

// chain builds the tokens in [pos, end). Each node after the first becomes
// the right operand of the one before it; only groups recurse.
func (p *parser) chain(pos, end int) (*Node, bool) {
	var nodes []*Node
	for {
		n, next, ok := p.node(pos, end)
		if !ok {
			return nil, false
		}
		nodes = append(nodes, n)
		if next == end {
			break
		}
		pos = next
	}
	for i := len(nodes) - 1; i > 0; i-- {
		nodes[i-1].Right = &Term{Sub: collapse(nodes[i])}
	}
	return collapse(nodes[0]), true
}

// node reads one operand and the operator after it. It returns end when the
// node is complete, or the position where its right-hand chain starts.
func (p *parser) node(pos, end int) (*Node, int, bool) {
	n := &Node{}
	if pos >= end {
		return nil, 0, false
	}
	if p.tokens[pos].Kind == Not {
		n.InvertLeft = true
		if pos++; pos >= end {
			return nil, 0, false
		}
	}
	if tok := p.tokens[pos]; tok.Kind == LParen {
		closer := p.closing[pos]
		if closer < 0 || closer >= end {
			return nil, 0, false
		}
		sub, ok := p.chain(pos+1, closer)
		if !ok {
			return nil, 0, false
		}
		n.Left = Term{Sub: sub}
		pos = closer + 1
	} else {
		n.Left = Term{Text: tok.String()}
		pos++
	}
	if pos == end {
		return n, end, true
	}

	switch p.tokens[pos].Kind {
	case And:
		n.Op = OpAnd
	case Or:
		n.Op = OpOr
	}
	pos++
	if end-pos == 2 && p.tokens[pos].Kind == Not {
		n.InvertRight = true
		pos++
	}
	switch end - pos {
	case 0:
		return nil, 0, false
	case 1:
		n.Right = &Term{Text: p.tokens[pos].String()}
		return n, end, true
	default:
		return n, pos, true
	}
}

// collapse unwraps a node that only holds a plain group.
func collapse(n *Node) *Node {
	if !n.InvertLeft && n.Left.Sub != nil && n.Right == nil {
		return n.Left.Sub
	}
	return n
}
