package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeClassifiesLines(t *testing.T) {
	src := "; a comment\nloop:\nlda #5 ; inline comment\n#macro foo\n"
	lines, err := Tokenize(src)
	require.Nil(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, TokLabel, lines[0].Token.Kind)
	assert.Equal(t, "loop", lines[0].Token.LabelName)

	assert.Equal(t, TokInstruction, lines[1].Token.Kind)
	assert.Equal(t, "lda", lines[1].Token.Name)
	assert.Equal(t, []string{"#5"}, lines[1].Token.RawArgs)

	assert.Equal(t, TokMarker, lines[2].Token.Kind)
	assert.Equal(t, "macro", lines[2].Token.Keyword)
	assert.Equal(t, []string{"foo"}, lines[2].Token.Args)
}

func TestTokenizeEmptySource(t *testing.T) {
	_, err := Tokenize("   \n ; only a comment\n")
	require.NotNil(t, err)
	assert.Equal(t, 0, err.Line)
}

func TestTokenizeRejectsBareMarker(t *testing.T) {
	_, err := Tokenize("#\n")
	require.NotNil(t, err)
}

func TestTokenizeRejectsMultiWordLabel(t *testing.T) {
	_, err := Tokenize("foo bar:\n")
	require.NotNil(t, err)
}

func TestValidateLabelNameRules(t *testing.T) {
	assert.NotNil(t, validateLabelName("", 1))
	assert.NotNil(t, validateLabelName("1abc", 1))
	assert.NotNil(t, validateLabelName("bad-name", 1))
	assert.Nil(t, validateLabelName("Loop_1", 1))
}
