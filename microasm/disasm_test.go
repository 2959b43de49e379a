package microasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleGroupsConsecutiveSteps(t *testing.T) {
	rom, err := Assemble("#def nop\niend\nhlt\n")
	require.Nil(t, err)

	defs := Disassemble(rom)
	require.NotEmpty(t, defs)

	var nopGroups int
	for _, d := range defs {
		if d.Mnemonic == "nop" {
			nopGroups++
			require.Len(t, d.Steps, 2)
			assert.Equal(t, []string{"iend"}, d.Steps[0].Signals)
			assert.Equal(t, []string{"hlt"}, d.Steps[1].Signals)
		}
	}
	assert.Equal(t, 4, nopGroups) // one group per flag combination
}
