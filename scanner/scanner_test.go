package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clox/token"
)

func scanAll(source string) []token.Token {
	s := New([]byte(source))
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.+-*/ != == <= >= < > = !")
	require.Equal(t, []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.SEMICOLON, token.COMMA, token.DOT, token.PLUS, token.MINUS,
		token.STAR, token.SLASH, token.BANG_EQUAL, token.EQUAL_EQUAL,
		token.LESS_EQUAL, token.GREATER_EQUAL, token.LESS, token.GREATER,
		token.EQUAL, token.BANG, token.EOF,
	}, kinds(toks))
}

func TestScanIdempotentAtEOF(t *testing.T) {
	s := New([]byte("1"))
	require.Equal(t, token.NUMBER, s.Scan().Kind)
	require.Equal(t, token.EOF, s.Scan().Kind)
	require.Equal(t, token.EOF, s.Scan().Kind, "scanning past EOF must keep returning EOF")
}

func TestScanNumber(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"123", "123"},
		{"1.5", "1.5"},
		{"1e3", "1e3"},
		{"1.5e2", "1.5e2"},
	}
	for _, tt := range tests {
		toks := scanAll(tt.source)
		require.Len(t, toks, 2)
		assert.Equal(t, token.NUMBER, toks[0].Kind)
		assert.Equal(t, tt.want, toks[0].Lexeme())
	}
}

func TestScanString(t *testing.T) {
	toks := scanAll(`"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `"hello world"`, toks[0].Lexeme())
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(`"abc`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Kind)
	assert.Equal(t, "Unterminated string", toks[0].Lexeme())
}

func TestScanStringCountsEmbeddedNewlines(t *testing.T) {
	s := New([]byte("\"a\nb\"\nc"))
	str := s.Scan()
	require.Equal(t, token.STRING, str.Kind)
	require.Equal(t, 1, str.Line)

	next := s.Scan()
	assert.Equal(t, 3, next.Line)
}

func TestScanLoneBarAndAmpersandAreErrors(t *testing.T) {
	bar := scanAll("|")
	require.Len(t, bar, 2)
	assert.Equal(t, token.ERROR, bar[0].Kind)
	assert.Equal(t, "Invalid operator. Did you mean '||'?", bar[0].Lexeme())

	amp := scanAll("&")
	require.Len(t, amp, 2)
	assert.Equal(t, token.ERROR, amp[0].Kind)
	assert.Equal(t, "Invalid operator. Did you mean '&&'?", amp[0].Lexeme())
}

func TestScanDoubledBarAndAmpersand(t *testing.T) {
	toks := scanAll("|| &&")
	require.Len(t, toks, 3)
	assert.Equal(t, token.OR, toks[0].Kind)
	assert.Equal(t, token.AND, toks[1].Kind)
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll("and class else false for fun if nil or print return super this true var while foobar")
	want := []token.Kind{
		token.AND, token.CLASS, token.ELSE, token.FALSE, token.FOR, token.FUN,
		token.IF, token.NIL, token.OR, token.PRINT, token.RETURN, token.SUPER,
		token.THIS, token.TRUE, token.VAR, token.WHILE, token.IDENTIFIER, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

// TestScanKeywordTrieDoesNotFallThrough guards against the reference
// scanner's documented `case 't':` bug, where an identifier starting
// with `t` but not continuing into "his" or "rue" falls through into
// the `v` branch and gets misclassified. `tx` must scan as a plain
// IDENTIFIER.
func TestScanKeywordTrieDoesNotFallThrough(t *testing.T) {
	toks := scanAll("tx")
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
}

func TestScanUnexpectedCharacter(t *testing.T) {
	toks := scanAll("@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Kind)
	assert.Equal(t, "Unexpected character", toks[0].Lexeme())
}

func TestScanSkipsCommentsAndWhitespace(t *testing.T) {
	toks := scanAll("  // a comment\n\t1")
	require.Len(t, toks, 2)
	assert.Equal(t, token.NUMBER, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Line)
}

func TestScanTrailingStatementWithoutFinalNewline(t *testing.T) {
	toks := scanAll("print 1;")
	want := []token.Kind{token.PRINT, token.NUMBER, token.SEMICOLON, token.EOF}
	assert.Equal(t, want, kinds(toks))
}
