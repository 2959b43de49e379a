package isa_test

import (
	"testing"

	"github.com/janstaffa/tower/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeBySigil(t *testing.T) {
	tests := []struct {
		sigil byte
		want  isa.IM
	}{
		{'#', isa.Immediate},
		{'*', isa.Absolute},
		{'@', isa.Indirect},
		{'&', isa.Constant},
	}
	for _, tt := range tests {
		mode, ok := isa.ModeBySigil(tt.sigil)
		require.True(t, ok)
		assert.Equal(t, tt.want, mode)
	}

	_, ok := isa.ModeBySigil('?')
	assert.False(t, ok)
}

func TestModeByName(t *testing.T) {
	mode, ok := isa.ModeByName("imm")
	require.True(t, ok)
	assert.Equal(t, isa.Immediate, mode)

	mode, ok = isa.ModeByName("IMM")
	require.True(t, ok)
	assert.Equal(t, isa.Immediate, mode)

	_, ok = isa.ModeByName("nonsense")
	assert.False(t, ok)
}

func TestBitIndexIsDistinctPerMode(t *testing.T) {
	seen := map[int]bool{}
	for _, m := range isa.Modes() {
		idx := m.BitIndex()
		assert.False(t, seen[idx], "duplicate bit index %d for mode %s", idx, m.Name())
		seen[idx] = true
	}
	assert.Len(t, seen, isa.InstructionModeCount)
}

func TestArgSizeMatchesMode(t *testing.T) {
	assert.Equal(t, 0, isa.Implied.ArgSize())
	assert.Equal(t, 1, isa.Immediate.ArgSize())
	assert.Equal(t, 1, isa.ZeroPage.ArgSize())
	assert.Equal(t, 2, isa.Absolute.ArgSize())
	assert.Equal(t, 2, isa.Constant.ArgSize())
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	_, canonical, _, ok := isa.Lookup("LDA")
	require.True(t, ok)
	assert.Equal(t, "lda", canonical)

	opcode, canonical2, _, ok := isa.Lookup("lda")
	require.True(t, ok)
	assert.Equal(t, canonical, canonical2)

	def, ok := isa.LookupOpcode(opcode)
	require.True(t, ok)
	assert.Equal(t, canonical, def.Name)
}

func TestLookupUnknownMnemonic(t *testing.T) {
	_, _, _, ok := isa.Lookup("nope")
	assert.False(t, ok)
}

func TestSignalIndexAndFlagBit(t *testing.T) {
	idx, ok := isa.SignalIndex(isa.ControlSignals[0])
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = isa.SignalIndex("not-a-signal")
	assert.False(t, ok)

	bit, ok := isa.FlagBit(isa.Flags[0])
	require.True(t, ok)
	assert.Equal(t, uint32(1), bit)
}
