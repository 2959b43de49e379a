package asm

// Label is a resolved program label: its name and the byte address it was
// defined at (spec.md §3.3).
type Label struct {
	Name    string
	Address uint32
}

// pendingRef records an emitted instruction whose argument is an
// unresolved label reference, awaiting back-patching once the whole
// program has been scanned (spec.md §4.2's "Back-patching").
type pendingRef struct {
	Index int // index into the parser's instructions slice
	Name  string
	Line  int
	Trace []string // macro expansion call stack that produced this reference, if any
}

// labelTable tracks defined labels and forward references, the Tower
// analogue of the teacher's SymbolTable (parser/symbols.go) narrowed to
// Tower's single flat address space — no relocation types, since spec.md's
// Non-goals exclude multi-unit linking.
type labelTable struct {
	labels []Label
}

func (lt *labelTable) define(name string, address uint32) bool {
	if _, ok := lt.lookup(name); ok {
		return false
	}
	lt.labels = append(lt.labels, Label{Name: name, Address: address})
	return true
}

func (lt *labelTable) lookup(name string) (Label, bool) {
	for _, l := range lt.labels {
		if l.Name == name {
			return l, true
		}
	}
	return Label{}, false
}
