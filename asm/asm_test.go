package asm

import (
	"testing"

	"github.com/janstaffa/tower/asmerr"
	"github.com/janstaffa/tower/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleEmptySource(t *testing.T) {
	_, err := Assemble("")
	require.NotNil(t, err)
	assert.Equal(t, asmerr.StageTokenize, err.Stage)
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := "lda #5\nadd %a\nhlt\n"
	out, err := Assemble(src)
	require.Nil(t, err)

	opcode, _, _, _ := isa.Lookup("lda")
	wantFirst := byte(opcode<<3) | byte(isa.Immediate.BitIndex())
	assert.Equal(t, wantFirst, out[0])
	assert.Equal(t, byte(5), out[1])
}

func TestAssembleLabelBackpatch(t *testing.T) {
	src := "jmp &loop\nloop:\nhlt\n"
	out, err := Assemble(src)
	require.Nil(t, err)

	// "jmp &loop" is 3 bytes (opcode + 2-byte constant address), so "loop"
	// resolves to address 3.
	require.Len(t, out, 4)
	assert.Equal(t, byte(0), out[1])
	assert.Equal(t, byte(3), out[2])
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := Assemble("jmp &nowhere\n")
	require.NotNil(t, err)
	require.NotNil(t, err.Cause)
	assert.Equal(t, asmerr.KindUndefinedLabel, err.Cause.Kind)
}

func TestAssembleInvalidMode(t *testing.T) {
	_, err := Assemble("hlt #5\n")
	require.NotNil(t, err)
	require.NotNil(t, err.Cause)
	assert.Equal(t, asmerr.KindInvalidMode, err.Cause.Kind)
}

func TestAssembleMacroExpansion(t *testing.T) {
	src := "#macro inc2\ninc &$1\ninc &$1\n#end\ninc2 &5\n"
	out, err := Assemble(src)
	require.Nil(t, err)

	// Each "inc &5" is 3 bytes; the macro body has two calls, so 6 bytes total.
	require.Len(t, out, 6)
	assert.Equal(t, out[0:3], out[3:6])
}

func TestAssembleMacroArityMismatch(t *testing.T) {
	src := "#macro inc2\ninc &$1\n#end\ninc2\n"
	_, err := Assemble(src)
	require.NotNil(t, err)
	require.NotNil(t, err.Cause)
	assert.Equal(t, asmerr.KindMacroArity, err.Cause.Kind)
}

func TestAssembleNonContiguousMacroParams(t *testing.T) {
	src := "#macro bad\ninc &$1\ndec &$3\n#end\n"
	_, err := Assemble(src)
	require.NotNil(t, err)
	require.NotNil(t, err.Cause)
	assert.Equal(t, asmerr.KindMacroParams, err.Cause.Kind)
}

func TestAssembleMissingArgumentRejectsDisallowedImplied(t *testing.T) {
	// "lda" doesn't allow Implied mode, so a bare mnemonic with no
	// argument must be rejected rather than silently defaulting to it.
	_, err := Assemble("lda\n")
	require.NotNil(t, err)
	require.NotNil(t, err.Cause)
	assert.Equal(t, asmerr.KindInvalidMode, err.Cause.Kind)
}

func TestAssembleBareImpliedMnemonicStillAssembles(t *testing.T) {
	// "hlt" allows only Implied, so the zero-argument form must keep working.
	out, err := Assemble("hlt\n")
	require.Nil(t, err)
	require.Len(t, out, 1)
}

func TestAssembleMacroTraceAnnotatesExpansionErrors(t *testing.T) {
	src := "#macro inc2\ninc &$1\njmp &nowhere\n#end\ninc2 &5\n"
	_, err := Assemble(src)
	require.NotNil(t, err)
	require.NotNil(t, err.Cause)
	assert.Equal(t, asmerr.KindUndefinedLabel, err.Cause.Kind)
	assert.Contains(t, err.Cause.Message, "macro trace: inc2")
}
