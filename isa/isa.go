// Package isa holds the Tower CPU's instruction-set table: the ordered
// mnemonic/opcode list, the instruction-mode (IM) bit set, and the
// microcode assembler's control-signal and flag tables. It is initialized
// once at package load and never mutated afterwards; both the program
// assembler (asm) and the microcode assembler (microasm) read it.
package isa

import "strings"

// IM is an instruction mode: a bit value (1 << bit index) selecting how an
// instruction's argument, if any, is sourced.
type IM uint32

// The eight instruction modes, as bit values. Bit index = log2(value).
const (
	Implied IM = 1 << iota
	Immediate
	Constant
	Absolute
	Indirect
	ZeroPage
	RegA
	RegB
)

// InstructionModeCount is the number of distinct IMs (spec.md §4.5's
// INSTRUCTION_MODE_COUNT).
const InstructionModeCount = 8

// modeOrder fixes the IM iteration order used for microcode ROM layout
// (spec.md §4.6's im_index = log2(bit value)), lowest bit first.
var modeOrder = [InstructionModeCount]IM{
	Implied, Immediate, Constant, Absolute, Indirect, ZeroPage, RegA, RegB,
}

// modeNames maps an IM to the lower-case name used in diagnostics and the
// microcode assembler's IM subsection labels (spec.md §4.4, §4.5).
var modeNames = map[IM]string{
	Implied:   "imp",
	Immediate: "imm",
	Constant:  "const",
	Absolute:  "abs",
	Indirect:  "ind",
	ZeroPage:  "zpage",
	RegA:      "rega",
	RegB:      "regb",
}

// modeBySigil maps an argument sigil to the IM it selects (spec.md §4.2).
var modeBySigil = map[byte]IM{
	'#': Immediate,
	'*': Absolute,
	'@': Indirect,
	'&': Constant,
}

// BitIndex returns the 0..7 bit index of an IM bit value, i.e. log2(m).
func (m IM) BitIndex() int {
	idx := 0
	for v := IM(1); v != m; v <<= 1 {
		idx++
		if idx > 32 {
			return -1
		}
	}
	return idx
}

// ArgSize returns the argument byte size for an IM: 2 for Absolute,
// Constant and Indirect; 1 for Immediate and ZeroPage; 0 otherwise
// (spec.md §3.2).
func (m IM) ArgSize() int {
	switch m {
	case Absolute, Constant, Indirect:
		return 2
	case Immediate, ZeroPage:
		return 1
	default:
		return 0
	}
}

// Name returns the lower-case short name of an IM ("imp", "imm", "const",
// "abs", "ind", "zpage", "rega", "regb"), or "" if m is not a single valid
// IM bit.
func (m IM) Name() string {
	return modeNames[m]
}

// ModeBySigil returns the IM selected by an argument's leading sigil, and
// whether that sigil is recognized.
func ModeBySigil(sigil byte) (IM, bool) {
	m, ok := modeBySigil[sigil]
	return m, ok
}

// ModeByName looks up an IM by its short subsection-label name
// (case-insensitive), as used by microcode source's `imp:`, `imm:`, ...
// labels (spec.md §4.5).
func ModeByName(name string) (IM, bool) {
	name = strings.ToLower(name)
	for _, m := range modeOrder {
		if modeNames[m] == name {
			return m, true
		}
	}
	return 0, false
}

// Modes returns the eight IMs in their canonical ROM-layout order.
func Modes() [InstructionModeCount]IM {
	return modeOrder
}

// Mnemonic describes one ISA table entry: its canonical (lower-case) name
// and the bitmask of IMs it accepts.
type Mnemonic struct {
	Name       string
	AllowedIMs IM
}

// Table is the ordered ISA table; a mnemonic's opcode is its index here.
// This is Tower's own instruction set and is unrelated to the ARM
// instructions the teacher repo encodes, and to the two abandoned IM sets
// (IAT, and the 7-mode IM_ACCUMULATOR variant) seen in
// original_source/assembler/src/{lib.rs,microasm/asm.rs} — see DESIGN.md.
var Table = []Mnemonic{
	{"nop", Implied},
	{"lda", Immediate | Absolute | ZeroPage | Indirect},
	{"sta", Absolute | ZeroPage | Indirect},
	{"ldb", Immediate | Absolute | ZeroPage | Indirect},
	{"stb", Absolute | ZeroPage | Indirect},
	{"tba", Implied},
	{"tab", Implied},
	{"tfa", Implied},
	{"taf", Implied},
	{"jmp", Absolute | Constant},
	{"jz", Absolute | Constant},
	{"jc", Absolute | Constant},
	{"jnz", Absolute | Constant},
	{"jnc", Absolute | Constant},
	{"add", Immediate | Absolute | ZeroPage | RegA | RegB},
	{"adc", Immediate | Absolute | ZeroPage | RegA | RegB},
	{"sub", Immediate | Absolute | ZeroPage | RegA | RegB},
	{"inc", Constant | Absolute | ZeroPage},
	{"dec", Constant | Absolute | ZeroPage},
	{"not", Implied | Immediate | Absolute | ZeroPage},
	{"nand", Immediate | Absolute | ZeroPage},
	{"sra", Implied | Immediate | Absolute | ZeroPage},
	{"sla", Implied | Immediate | Absolute | ZeroPage},
	{"rb", Immediate | Absolute | ZeroPage},
	{"wb", Immediate | Absolute | ZeroPage},
	{"push", RegA | RegB | Immediate},
	{"pop", RegA | RegB},
	{"call", Absolute | Constant},
	{"ret", Implied},
	{"hlt", Implied},
}

// OpcodeBitSize is the number of address bits the ISA table's opcode space
// occupies; spec.md §4.6's OPCODE_BIT_SIZE. len(Table) == 30 fits in 5 bits.
const OpcodeBitSize = 5

// Lookup finds a mnemonic case-insensitively and returns its opcode,
// canonical (lower-case) name and allowed-IM mask (spec.md §3.1).
func Lookup(mnemonic string) (opcode int, canonical string, allowedIMs IM, ok bool) {
	lower := strings.ToLower(mnemonic)
	for i, m := range Table {
		if m.Name == lower {
			return i, m.Name, m.AllowedIMs, true
		}
	}
	return 0, "", 0, false
}

// LookupOpcode returns the mnemonic at a given opcode, if any.
func LookupOpcode(opcode int) (Mnemonic, bool) {
	if opcode < 0 || opcode >= len(Table) {
		return Mnemonic{}, false
	}
	return Table[opcode], true
}
