package microasm

import (
	"strings"
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

func TestAssembleRomTotality(t *testing.T) {
	out, err := Assemble("#def nop\niend\n")
	require.Nil(t, err)

	wantLen := (1 << uint(isa.OpcodeBitSize+isa.InstructionModeBitSize+isa.FlagsBitSize+isa.StepCounterBitSize)) * isa.ControlBytes
	assert.Equal(t, wantLen, len(out))
}

func TestIfElseBranchesOnFlag(t *testing.T) {
	src := "#def jc\n#if carry\npcj\n#else\npce\n#end\niend\n"
	defs, sErr := Parse(mustTokenize(t, src))
	require.Nil(t, sErr)

	opcode, _, _, _ := isa.Lookup("jc")
	carryBit, _ := isa.FlagBit("carry")

	var withCarry, withoutCarry *InstructionDef
	for _, d := range defs {
		if d.Opcode != opcode || d.Mode != isa.Absolute {
			continue
		}
		if d.Flags&carryBit != 0 {
			withCarry = d
		} else {
			withoutCarry = d
		}
	}
	require.NotNil(t, withCarry)
	require.NotNil(t, withoutCarry)

	pcjIdx, _ := isa.SignalIndex("pcj")
	pceIdx, _ := isa.SignalIndex("pce")
	iendIdx, _ := isa.SignalIndex("iend")

	require.Len(t, withCarry.Steps, 2)
	assert.Equal(t, []int{pcjIdx}, withCarry.Steps[0].Exponents)
	assert.Equal(t, []int{iendIdx}, withCarry.Steps[1].Exponents)

	require.Len(t, withoutCarry.Steps, 2)
	assert.Equal(t, []int{pceIdx}, withoutCarry.Steps[0].Exponents)
	assert.Equal(t, []int{iendIdx}, withoutCarry.Steps[1].Exponents)
}

func TestSuffixOverflow(t *testing.T) {
	var b strings.Builder
	b.WriteString("#suf\n")
	for i := 0; i < 5; i++ {
		b.WriteString("hlt\n")
	}
	b.WriteString("#def nop\n")
	for i := 0; i < 12; i++ {
		b.WriteString("iend\n")
	}

	lines, tErr := Tokenize(b.String())
	require.Nil(t, tErr)
	_, pErr := Parse(lines)
	require.NotNil(t, pErr)
	assert.Equal(t, asmerr.KindMaxStepCount, pErr.Kind)
}

func TestSuffixRemembersAcrossDefs(t *testing.T) {
	src := "#suf\nhlt\n#def nop\niend\n#def ret\niend\n"
	defs, err := Parse(mustTokenize(t, src))
	require.Nil(t, err)

	hltIdx, _ := isa.SignalIndex("hlt")
	found := false
	for _, d := range defs {
		if d.Mnemonic == "ret" && d.Mode == isa.Implied {
			require.GreaterOrEqual(t, len(d.Steps), 1)
			last := d.Steps[len(d.Steps)-1]
			assert.Equal(t, []int{hltIdx}, last.Exponents)
			found = true
		}
	}
	assert.True(t, found)
}

func mustTokenize(t *testing.T, src string) []TokenizedLine {
	t.Helper()
	lines, err := Tokenize(src)
	require.Nil(t, err)
	return lines
}
