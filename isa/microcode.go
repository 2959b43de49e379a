package isa

// ControlSignals is the ordered list of symbolic control-signal names; a
// signal's exponent (its index here) is OR'd as 1<<exponent into a
// micro-step's control word (spec.md §3.4, §4.5). Grounded on
// original_source/assembler/src/bin/microasm.rs's CONTROL_SIGNALS enum,
// renamed to lower-case step-line tokens the way the microcode tokenizer
// lower-cases every word before comparison (spec.md §4.4 rule, §8.1
// case-insensitivity property).
var ControlSignals = []string{
	"hlt",
	"iend",
	"pce",
	"pco",
	"pcj",
	"ai",
	"ao",
	"bi",
	"bo",
	"rso",
	"opadd",
	"opsub",
	"opnot",
	"opnand",
	"opsr",
	"fi",
	"fo",
	"mi",
	"mo",
	"ini",
	"hi",
	"ho",
	"li",
	"lo",
	"hlo",
	"dve",
	"dvw",
}

// Flags is the ordered list of CPU status-flag names; flag bit k = 1<<k
// (spec.md §3.4, §4.5).
var Flags = []string{
	"carry",
	"zero",
}

// FlagsBitSize is the number of address bits the flags occupy in the
// microcode ROM address (spec.md §4.6's FLAGS_BIT_SIZE).
const FlagsBitSize = 2

// FlagCombinations is 2^FlagsBitSize, the number of distinct flag values.
const FlagCombinations = 1 << FlagsBitSize

// InstructionModeBitSize is the number of address bits the IM occupies in
// the microcode ROM address (spec.md §4.6's fixed width of 3).
const InstructionModeBitSize = 3

// StepCounterBitSize is the number of address bits the micro-step index
// occupies (spec.md §4.6's fixed width of 4).
const StepCounterBitSize = 4

// MaxMicroStepCount is the maximum number of micro-steps a single
// InstructionDef may hold (spec.md §3.4, §4.5, §4.6).
const MaxMicroStepCount = 1 << StepCounterBitSize

// TotalDefCombinations is the number of (IM, flags) template combinations
// a single `#def` fans out into (spec.md §4.5's TOTAL_DEF_COMBINATIONS).
const TotalDefCombinations = InstructionModeCount * FlagCombinations

// ControlBytes is the fixed width, in bytes, of one microcode ROM entry
// (spec.md §4.6, §6.4): enough to hold one bit per control signal,
// big-endian.
const ControlBytes = 5

// SignalIndex returns the exponent of a control signal by name
// (case-sensitive; callers are expected to have already lower-cased the
// word per the microcode tokenizer's rules).
func SignalIndex(name string) (int, bool) {
	for i, s := range ControlSignals {
		if s == name {
			return i, true
		}
	}
	return -1, false
}

// FlagBit returns the bit value of a flag by name, and whether it exists.
func FlagBit(name string) (uint32, bool) {
	for i, f := range Flags {
		if f == name {
			return 1 << uint(i), true
		}
	}
	return 0, false
}
