package sexpr

import "io"

// Parser builds node trees from source text.
// A Parser holds only configuration and is safe for concurrent use.
type Parser struct {
	maxDepth int
}

// ParseOption configures a Parser.
type ParseOption func(*Parser)

// WithParseMaxDepth limits list nesting. Zero means unbounded.
func WithParseMaxDepth(n int) ParseOption {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// NewParser returns a parser with the given options applied.
func NewParser(opts ...ParseOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses a document holding exactly one top-level node.
func Parse(src string) (*Node, error) {
	return defaultParser.Parse(src)
}

// ParseAll parses a document holding any number of top-level nodes.
func ParseAll(src string) ([]*Node, error) {
	return defaultParser.ParseAll(src)
}

// Parse parses a document holding exactly one top-level node.
func (p *Parser) Parse(src string) (*Node, error) {
	l := NewLexer(src)
	n, err := p.parseNode(l)
	if err == io.EOF {
		return nil, newParseError(ErrTopLevelCount, l.Pos())
	}
	if err != nil {
		return nil, err
	}

	tok, err := l.Next()
	if err == io.EOF {
		return n, nil
	}
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokenClose {
		return nil, newParseError(ErrUnexpectedCloseParen, tok.Pos)
	}
	return nil, newParseError(ErrTopLevelCount, tok.Pos)
}

// ParseAll parses a document holding any number of top-level nodes.
func (p *Parser) ParseAll(src string) ([]*Node, error) {
	l := NewLexer(src)
	var nodes []*Node
	for {
		n, err := p.parseNode(l)
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

// parseNode reads one complete node. It returns io.EOF if the input holds no
// further tokens. Lists are built with an explicit stack so input nesting
// never grows the goroutine stack.
func (p *Parser) parseNode(l *Lexer) (*Node, error) {
	var stack []*Node
	for {
		tok, err := l.Next()
		if err == io.EOF {
			if len(stack) == 0 {
				return nil, io.EOF
			}
			return nil, newParseError(ErrUnbalancedParens, l.Pos())
		}
		if err != nil {
			return nil, err
		}

		var done *Node
		switch tok.Kind {
		case TokenOpen:
			if p.maxDepth > 0 && len(stack) >= p.maxDepth {
				return nil, newParseError(ErrDepthExceeded, tok.Pos)
			}
			list := List()
			list.Pos = tok.Pos
			stack = append(stack, list)
			continue
		case TokenClose:
			if len(stack) == 0 {
				return nil, newParseError(ErrUnexpectedCloseParen, tok.Pos)
			}
			done = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		default:
			done = &Node{
				Kind:   KindAtom,
				Text:   tok.Text,
				Quoted: tok.Kind == TokenString,
				Pos:    tok.Pos,
			}
		}

		if len(stack) == 0 {
			return done, nil
		}
		parent := stack[len(stack)-1]
		parent.List = append(parent.List, done)
	}
}
