package microasm

import "github.com/janstaffa/tower/isa"

// Conditional is one pushed `#if`/`#if !` guard: a flag name and whether
// it is inverted (spec.md §4.5).
type Conditional struct {
	Flag     string
	Inverted bool
}

// ConditionalStep is a micro-step recorded before it has been resolved
// against a concrete (IM, flags) template: its control-signal exponents
// plus the conditional stack active when it was written (spec.md §4.5).
type ConditionalStep struct {
	Exponents  []int
	Conditions []Conditional
}

// MicroStep is a resolved micro-step as stored in an InstructionDef: just
// its control-signal exponents, no conditions (spec.md §4.5's "steps
// stored in an InstructionDef carry no conditions").
type MicroStep struct {
	Exponents []int
}

// InstructionDef is one (opcode, IM, flags) template and its resolved
// step list (spec.md §4.5, §4.6).
type InstructionDef struct {
	Mnemonic string
	Opcode   int
	Mode     isa.IM
	Flags    uint32
	Steps    []MicroStep
}

// MacroDef is a recorded `#macro` body in the microcode assembler: an
// ordered list of ConditionalSteps, still carrying conditions because
// they are resolved only when the macro is invoked inside an open `#def`
// (spec.md §4.5).
type MacroDef struct {
	Name  string
	Steps []ConditionalStep
}

// conditionsSatisfied reports whether every Conditional in conds holds
// against a template's flags value (spec.md §4.5, §8.1's "conditional
// filter" property).
func conditionsSatisfied(conds []Conditional, flags uint32) bool {
	for _, c := range conds {
		bit, _ := isa.FlagBit(c.Flag)
		isSet := flags&bit != 0
		if isSet == c.Inverted {
			return false
		}
	}
	return true
}

// filterSteps keeps only the ConditionalSteps whose conditions hold
// against flags, converting survivors to unconditioned MicroSteps.
func filterSteps(steps []ConditionalStep, flags uint32) []MicroStep {
	var out []MicroStep
	for _, s := range steps {
		if conditionsSatisfied(s.Conditions, flags) {
			out = append(out, MicroStep{Exponents: append([]int(nil), s.Exponents...)})
		}
	}
	return out
}
