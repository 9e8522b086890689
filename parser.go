package main

// Parser consumes a flat token list and produces function declarations.
// Space and Linebreak tokens are skipped wherever whitespace is purely
// separating (declaration headers, argument/return lists) but preserved
// verbatim inside a function body grid, where column position is meaning.
type Parser struct {
	toks []Token
	pos  int
}

func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *Parser) spaces() {
	for {
		t, ok := p.peek()
		if !ok || (t.Kind != TokSpace && t.Kind != TokLinebreak) {
			return
		}
		p.pos++
	}
}

func (p *Parser) endPos() int {
	if p.pos > 0 {
		return p.toks[p.pos-1].End
	}
	return 0
}

// errSpan returns a reasonable span to blame when the next token is
// missing or unexpected: the next token's start if there is one, or the
// end of input otherwise.
func (p *Parser) errSpan() int {
	if t, ok := p.peek(); ok {
		return t.Start
	}
	return p.endPos()
}

// ParseProgram parses the whole token stream into a list of function
// declarations, erroring on the first token that starts neither a
// declaration nor end of input.
func (p *Parser) ParseProgram() ([]FnDecl, error) {
	var decls []FnDecl
	for {
		p.spaces()
		if _, ok := p.peek(); !ok {
			return decls, nil
		}
		decl, err := p.parseFnDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, *decl)
	}
}

func (p *Parser) parseFnDecl() (*FnDecl, error) {
	start, ok := p.peek()
	if !ok || start.Kind != TokSymbol || start.StringValue() != "fn" {
		if ok {
			return nil, &ParserError{start.Start, start.End, "expected top-level 'fn' declaration"}
		}
		return nil, &ParserError{p.endPos(), p.endPos(), "expected top-level 'fn' declaration"}
	}
	p.advance()
	p.spaces()

	nameTok, ok := p.peek()
	if !ok || nameTok.Kind != TokSymbol {
		return nil, &ParserError{p.errSpan(), p.errSpan(), "expected function name"}
	}
	name := nameTok.StringValue()
	p.advance()
	p.spaces()

	lparen, ok := p.peek()
	if !ok || lparen.Kind != TokLParen {
		return nil, &ParserError{p.errSpan(), p.errSpan(), "expected '(' after function name"}
	}
	p.advance()

	args, err := p.parseArgList(lparen.Start)
	if err != nil {
		return nil, err
	}

	p.spaces()
	arrow, ok := p.peek()
	if !ok || arrow.Kind != TokRight {
		return nil, &ParserError{p.errSpan(), p.errSpan(), "expected '->' after argument list"}
	}
	p.advance()
	p.spaces()

	retLParen, ok := p.peek()
	if !ok || retLParen.Kind != TokLParen {
		return nil, &ParserError{p.errSpan(), p.errSpan(), "expected '(' before return list"}
	}
	p.advance()

	rets, err := p.parseReturnList(retLParen.Start)
	if err != nil {
		return nil, err
	}

	p.spaces()
	lcurly, ok := p.peek()
	if !ok || lcurly.Kind != TokLCurly {
		return nil, &ParserError{p.errSpan(), p.errSpan(), "expected '{' before function body"}
	}
	p.advance()
	p.spaces()

	grid := p.parseGrid()

	rcurly, ok := p.peek()
	if !ok || rcurly.Kind != TokRCurly {
		return nil, &ParserError{lcurly.Start, p.errSpan(), "unclosed function body: expected '}'"}
	}
	p.advance()

	return &FnDecl{Name: name, Args: args, Rets: rets, Body: grid}, nil
}

// parseArgList parses "[ '...' ] { name ':' typesig }" up to the closing
// ')'. openPos is the '(' position, used to blame an unclosed list.
func (p *Parser) parseArgList(openPos int) (ArgList, error) {
	kind := ArgLimited
	var args []Arg

	p.spaces()
	for {
		t, ok := p.peek()
		if !ok {
			return ArgList{}, &ParserError{openPos, p.endPos(), "unclosed function argument list"}
		}
		if t.Kind == TokRParen {
			p.advance()
			break
		}
		if t.Kind != TokSymbol {
			return ArgList{}, &ParserError{t.Start, t.End, "expected argument name"}
		}
		p.advance()
		if t.StringValue() == "..." && kind == ArgLimited && len(args) == 0 {
			kind = ArgEllipses
			p.spaces()
			continue
		}
		argName := t.StringValue()
		p.spaces()

		colon, ok := p.peek()
		if !ok || colon.Kind != TokSymbol || colon.StringValue() != ":" {
			return ArgList{}, &ParserError{p.errSpan(), p.errSpan(), "expected ':' after argument name"}
		}
		p.advance()
		p.spaces()

		typ, err := p.parseTypeSig()
		if err != nil {
			return ArgList{}, err
		}
		args = append(args, Arg{Name: argName, Type: typ})
		p.spaces()
	}

	return ArgList{Kind: kind, Args: args}, nil
}

// parseReturnList parses "{ typesig } [ '...' typesig ]" up to the closing
// ')'. openPos is the '(' position, used to blame an unclosed list.
func (p *Parser) parseReturnList(openPos int) (ReturnSig, error) {
	var rets ReturnSig
	for {
		p.spaces()
		t, ok := p.peek()
		if !ok {
			return ReturnSig{}, &ParserError{openPos, p.endPos(), "unclosed return list"}
		}
		if t.Kind == TokRParen {
			p.advance()
			return rets, nil
		}
		if t.Kind == TokSymbol && t.StringValue() == "..." {
			p.advance()
			p.spaces()
			typ, err := p.parseTypeSig()
			if err != nil {
				return ReturnSig{}, err
			}
			rets.Rest = &typ
			p.spaces()
			closeTok, ok := p.peek()
			if !ok || closeTok.Kind != TokRParen {
				return ReturnSig{}, &ParserError{openPos, p.errSpan(), "expected ')' after rest return type"}
			}
			p.advance()
			return rets, nil
		}
		typ, err := p.parseTypeSig()
		if err != nil {
			return ReturnSig{}, err
		}
		rets.Args = append(rets.Args, typ)
	}
}

// parseTypeSig parses "[ '[' ] symbol [ ']' ]".
func (p *Parser) parseTypeSig() (TypeSig, error) {
	isStack := false
	if t, ok := p.peek(); ok && t.Kind == TokLSquare {
		isStack = true
		p.advance()
		p.spaces()
	}

	nameTok, ok := p.peek()
	if !ok || nameTok.Kind != TokSymbol {
		return TypeSig{}, &ParserError{p.errSpan(), p.errSpan(), "expected type name"}
	}
	name := nameTok.StringValue()
	p.advance()

	if isStack {
		p.spaces()
		closeTok, ok := p.peek()
		if !ok || closeTok.Kind != TokRSquare {
			return TypeSig{}, &ParserError{p.errSpan(), p.errSpan(), "expected ']' after stack type"}
		}
		p.advance()
	}

	return TypeSig{Name: name, IsStack: isStack}, nil
}

// parseNode maps one token directly to one grid node; it returns false for
// any token that cannot start a node (RCurly, end of input).
func (p *Parser) parseNode() (Node, bool) {
	t, ok := p.peek()
	if !ok {
		return Node{}, false
	}
	switch t.Kind {
	case TokInt:
		p.advance()
		return Node{Kind: NodeIntLit, Length: t.Length, Value: t.Value}, true
	case TokFloat:
		p.advance()
		return Node{Kind: NodeFloatLit, Length: t.Length, Value: t.Value}, true
	case TokChar:
		p.advance()
		return Node{Kind: NodeCharLit, Length: t.Length, Value: t.Value}, true
	case TokString:
		p.advance()
		return Node{Kind: NodeStrLit, Length: t.Length, Value: t.Value}, true
	case TokSymbol:
		p.advance()
		return Node{Kind: NodeCall, Length: t.Length, Value: t.Value}, true
	case TokQMark:
		p.advance()
		return Node{Kind: NodeBranch, Length: t.Length}, true
	case TokLeft:
		p.advance()
		return Node{Kind: NodeDirLeft, Length: t.Length}, true
	case TokRight:
		p.advance()
		return Node{Kind: NodeDirRight, Length: t.Length}, true
	case TokUp:
		p.advance()
		return Node{Kind: NodeDirUp, Length: t.Length}, true
	case TokDown:
		p.advance()
		return Node{Kind: NodeDirDown, Length: t.Length}, true
	case TokSpace:
		p.advance()
		return Node{Kind: NodeSpace, Length: t.Length}, true
	default:
		return Node{}, false
	}
}

// parseGrid consumes nodes until it sees a token that parseNode rejects
// (typically the function body's closing '}'), splitting rows on Linebreak.
func (p *Parser) parseGrid() Grid {
	var grid Grid
	var row Row
	for {
		t, ok := p.peek()
		if ok && t.Kind == TokLinebreak {
			p.advance()
			grid = append(grid, row)
			row = nil
			continue
		}
		node, ok := p.parseNode()
		if !ok {
			break
		}
		row = append(row, node)
	}
	if len(row) > 0 {
		grid = append(grid, row)
	}
	return grid
}
