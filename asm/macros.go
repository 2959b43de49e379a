package asm

// MacroDef is a recorded `#macro` body: its name, the distinct `$N`
// parameter indices its body references (checked at `#end` to form the
// contiguous range 1..=N once sorted), and the body
// instructions themselves (still carrying Implicit arguments where a
// parameter was used). Grounded on the teacher's MacroTable
// (parser/macros.go), generalized from named `\param` substitution to
// Tower's positional `$N` substitution (spec.md §3.3, §4.2).
type MacroDef struct {
	Name   string
	Params []int // parameter indices seen, in first-seen order
	Body   []Instruction
}

// macroTable is an ordered, lookup-by-name collection of MacroDefs, the
// Tower analogue of the teacher's MacroTable (parser/macros.go) — a plain
// slice instead of a map because macro bodies are mutated in place while
// being recorded and definitions are never very numerous.
type macroTable struct {
	defs []*MacroDef
}

func (mt *macroTable) define(def *MacroDef) {
	mt.defs = append(mt.defs, def)
}

func (mt *macroTable) lookup(name string) (*MacroDef, bool) {
	for _, d := range mt.defs {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// recordParam appends idx to def.Params if not already present, preserving
// first-seen order (spec.md §4.2 rule 3's "record any new Implicit
// parameter index").
func recordParam(def *MacroDef, idx int) {
	for _, p := range def.Params {
		if p == idx {
			return
		}
	}
	def.Params = append(def.Params, idx)
}

// validateContiguousParams checks that a macro's recorded parameter
// indices, sorted, form the contiguous range 1..=N (spec.md §3.3 invariant,
// §4.2's `#end` validation, §8.1's "contiguous macro params" property).
func validateContiguousParams(params []int) bool {
	sorted := append([]int(nil), params...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for i, v := range sorted {
		if v != i+1 {
			return false
		}
	}
	return true
}
