package main

import (
	"strconv"
)

// Lexer turns a UTF-8 source buffer into a flat token list, whitespace and
// linebreaks included — the parser decides what to skip and what to keep
// for the body grid, the lexer just reports what it saw.
type Lexer struct {
	input string
	pos   int // byte cursor
}

// NewLexer wraps a source buffer for lexing. The caller owns input for the
// lifetime of the returned tokens; nothing is copied out of it except
// literal payloads.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex consumes the whole buffer and returns its token list, or the first
// LexError encountered. Lexing is not resumable past an error: one hard
// error ends the run, per the error-handling policy in the language spec.
func (l *Lexer) Lex() ([]Token, error) {
	var toks []Token
	for l.pos < len(l.input) {
		tok, err := l.lexOne()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

func (l *Lexer) byteAt(i int) byte {
	if i < 0 || i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) runeAt(i int) (rune, int) {
	return decodeRune(l.input, i)
}

var escapeTable = map[rune]rune{
	'n': '\n',
	'r': '\r',
	't': '\t',
}

// lexOne recognizes the next token starting at l.pos, trying the rules in
// the order the spec lists them: whitespace, number, special glyph,
// character literal, string literal, symbol.
func (l *Lexer) lexOne() (Token, error) {
	start := l.pos
	ch := l.byteAt(l.pos)

	switch ch {
	case ' ':
		l.pos++
		return Token{Start: start, End: l.pos, Length: 1, Kind: TokSpace}, nil
	case '\t':
		l.pos++
		return Token{Start: start, End: l.pos, Length: 4, Kind: TokSpace}, nil
	case '\n':
		l.pos++
		return Token{Start: start, End: l.pos, Length: 0, Kind: TokLinebreak}, nil
	}

	if tok, ok := l.tryNumber(); ok {
		return tok, nil
	}

	if tok, ok := l.trySpecial(); ok {
		return tok, nil
	}

	if ch == '\'' {
		return l.lexCharLit()
	}

	if ch == '"' {
		return l.lexStringLit()
	}

	return l.lexSymbol()
}

// tryNumber attempts "[sign] digits [. digits]". A lone sign with no digit
// following is not a number: the cursor is left untouched so the sign gets
// picked up by the symbol rule instead.
func (l *Lexer) tryNumber() (Token, bool) {
	start := l.pos
	pos := l.pos

	if b := l.byteAt(pos); b == '+' || b == '-' {
		pos++
	}

	digitsBefore := 0
	for isDigit(l.byteAt(pos)) {
		pos++
		digitsBefore++
	}

	isFloat := false
	digitsAfter := 0
	if l.byteAt(pos) == '.' && isDigitOrNone(l.byteAt(pos+1), digitsBefore) {
		savedPos := pos
		pos++
		for isDigit(l.byteAt(pos)) {
			pos++
			digitsAfter++
		}
		if digitsBefore > 0 || digitsAfter > 0 {
			isFloat = true
		} else {
			pos = savedPos
		}
	}

	if digitsBefore == 0 && digitsAfter == 0 {
		return Token{}, false
	}

	text := l.input[start:pos]
	l.pos = pos

	if isFloat {
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			f = 0
		}
		return Token{Start: start, End: pos, Length: runeLen(text), Kind: TokFloat, Value: float32(f)}, true
	}

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		n = 0
	}
	return Token{Start: start, End: pos, Length: runeLen(text), Kind: TokInt, Value: int32(n)}, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isDigitOrNone lets a bare '.' followed by no digit through when there
// were digits before it ("3."), and requires a digit after it otherwise
// (".5" needs the 5; a lone "." is not a number).
func isDigitOrNone(next byte, digitsBefore int) bool {
	if isDigit(next) {
		return true
	}
	return digitsBefore > 0
}

type specialRule struct {
	text string
	kind TokenKind
}

// Longer patterns must be tried before their prefixes ("->" before a bare
// symbol scan would otherwise swallow the '-').
var specialRules = []specialRule{
	{"->", TokRight},
	{"<-", TokLeft},
	{"|^", TokUp},
	{"^|", TokUp},
	{"|v", TokDown},
	{"?", TokQMark},
	{"[", TokLSquare},
	{"]", TokRSquare},
	{"(", TokLParen},
	{")", TokRParen},
	{"{", TokLCurly},
	{"}", TokRCurly},
}

func (l *Lexer) trySpecial() (Token, bool) {
	for _, rule := range specialRules {
		n := len(rule.text)
		if l.pos+n <= len(l.input) && l.input[l.pos:l.pos+n] == rule.text {
			start := l.pos
			l.pos += n
			return Token{Start: start, End: l.pos, Length: 1, Kind: rule.kind}, true
		}
	}
	return Token{}, false
}

// startsDigraph reports whether the byte at pos begins a direction/arrow
// token, without consuming anything — the symbol rule uses this to know
// where its greedy run must stop.
func (l *Lexer) startsDigraph(pos int) bool {
	for _, rule := range specialRules {
		if rule.kind == TokQMark || rule.kind == TokLSquare || rule.kind == TokRSquare ||
			rule.kind == TokLParen || rule.kind == TokRParen || rule.kind == TokLCurly || rule.kind == TokRCurly {
			continue
		}
		n := len(rule.text)
		if pos+n <= len(l.input) && l.input[pos:pos+n] == rule.text {
			return true
		}
	}
	return false
}

func (l *Lexer) lexCharLit() (Token, error) {
	start := l.pos
	l.pos++ // opening '

	r, err := l.readLitRune(start)
	if err != nil {
		return Token{}, err
	}

	if l.byteAt(l.pos) != '\'' {
		return Token{}, &LexError{Start: start, End: l.pos, Message: "unclosed character literal"}
	}
	l.pos++ // closing '

	return Token{Start: start, End: l.pos, Length: runeLen(l.input[start:l.pos]), Kind: TokChar, Value: r}, nil
}

// readLitRune reads one literal rune (possibly escaped) from the cursor,
// used by both character and string literal scanning.
func (l *Lexer) readLitRune(litStart int) (rune, error) {
	ch := l.byteAt(l.pos)
	if ch == '\n' || l.pos >= len(l.input) {
		return 0, &LexError{Start: litStart, End: l.pos, Message: "newline or end of input inside literal"}
	}
	if ch == '\\' {
		l.pos++
		esc, n := l.runeAt(l.pos)
		if n == 0 {
			return 0, &LexError{Start: litStart, End: l.pos, Message: "unclosed literal"}
		}
		l.pos += n
		if mapped, ok := escapeTable[esc]; ok {
			return mapped, nil
		}
		return esc, nil
	}
	r, n := l.runeAt(l.pos)
	if n == 0 {
		return 0, &LexError{Start: litStart, End: l.pos, Message: "invalid UTF-8 in literal"}
	}
	l.pos += n
	return r, nil
}

func (l *Lexer) lexStringLit() (Token, error) {
	start := l.pos
	l.pos++ // opening "

	var runes []rune
	for {
		if l.pos >= len(l.input) {
			return Token{}, &LexError{Start: start, End: l.pos, Message: "unclosed string literal"}
		}
		if l.byteAt(l.pos) == '"' {
			break
		}
		r, err := l.readLitRune(start)
		if err != nil {
			return Token{}, err
		}
		runes = append(runes, r)
	}
	l.pos++ // closing "

	s := string(runes)
	return Token{Start: start, End: l.pos, Length: runeLen(l.input[start:l.pos]), Kind: TokString, Value: s}, nil
}

// lexSymbol greedily consumes codepoints that aren't whitespace, a bracket,
// '?', a quote, or the start of a direction/arrow digraph. The run must be
// non-empty; an unrecognizable leading byte is a hard lex error.
func (l *Lexer) lexSymbol() (Token, error) {
	start := l.pos
	pos := l.pos

	for pos < len(l.input) {
		b := l.input[pos]
		if b == ' ' || b == '\t' || b == '\n' || b == '?' || b == '\'' || b == '"' ||
			b == '[' || b == ']' || b == '(' || b == ')' || b == '{' || b == '}' {
			break
		}
		if l.startsDigraph(pos) {
			break
		}
		_, n := decodeRune(l.input, pos)
		if n == 0 {
			if pos == start {
				return Token{}, &LexError{Start: start, End: pos + 1, Message: "unrecognized byte"}
			}
			break
		}
		pos += n
	}

	if pos == start {
		return Token{}, &LexError{Start: start, End: start + 1, Message: "unrecognized byte"}
	}

	text := l.input[start:pos]
	l.pos = pos
	return Token{Start: start, End: pos, Length: runeLen(text), Kind: TokSymbol, Value: text}, nil
}
