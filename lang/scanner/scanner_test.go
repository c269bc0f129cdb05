package scanner_test

import (
	"testing"

	"github.com/ember-lang/ember/lang/scanner"
	"github.com/ember-lang/ember/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := scanner.ScanSource("test.ember", []byte(src))
	require.NoError(t, err)
	var ks []token.Kind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestScanPunctuationAndKeywords(t *testing.T) {
	got := kinds(t, `mut x = 1 -> fn() {}; if else true false null trace`)
	assert.Equal(t, []token.Kind{
		token.MUT, token.IDENT, token.EQ, token.NUMBER, token.ARROW,
		token.FN, token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMI,
		token.IF, token.ELSE, token.TRUE, token.FALSE, token.NULL, token.TRACE,
		token.EOF,
	}, got)
}

func TestScanTwoCharOperators(t *testing.T) {
	got := kinds(t, `&& || == != <= >=`)
	assert.Equal(t, []token.Kind{
		token.AMPAMP, token.PIPEPIPE, token.EQEQ, token.BANGEQ, token.LE, token.GE, token.EOF,
	}, got)
}

func TestScanStringEscapes(t *testing.T) {
	toks, err := scanner.ScanSource("test.ember", []byte(`"a\nb\tc\\\"d"`))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\\\"d", toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := scanner.ScanSource("test.ember", []byte(`"abc`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminated")
}

func TestScanLineComment(t *testing.T) {
	got := kinds(t, "1 // trailing comment\n2")
	assert.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, got)
}

func TestScanNumberWithExponent(t *testing.T) {
	toks, err := scanner.ScanSource("test.ember", []byte(`1e10 2.5e-3`))
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "1e10", toks[0].Lexeme)
	assert.Equal(t, "2.5e-3", toks[1].Lexeme)
}
