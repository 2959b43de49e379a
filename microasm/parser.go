package microasm

import (
	"fmt"
	"strings"

	"github.com/janstaffa/tower/asmerr"
	"github.com/janstaffa/tower/isa"
)

const overflowMessage = "Invalid instruction definition, maximum step count is 16. The added suffix has brought the step count over the limit."

// parser holds the §4.5 state machine: the instruction currently being
// defined (fanned out into TotalDefCombinations templates), the macro
// currently being recorded, the remembered prefix/suffix step lists, the
// active conditional stack, and the finished InstructionDefs.
type parser struct {
	definedMnemonics map[string]bool

	currentDef           []*InstructionDef
	currentDefAllowedIMs isa.IM
	currentlyDefinedIM   isa.IM

	currentMacro *MacroDef
	macros       []*MacroDef

	recordingPrefix bool
	recordingSuffix bool
	prefix          []ConditionalStep
	suffix          []ConditionalStep

	condStack []Conditional

	output []*InstructionDef
}

// Parse expands a tokenized microcode program into its surviving
// InstructionDefs (spec.md §4.5).
func Parse(lines []TokenizedLine) ([]*InstructionDef, *asmerr.SyntaxError) {
	p := &parser{definedMnemonics: map[string]bool{}}

	for _, tl := range lines {
		if err := p.handleLine(tl); err != nil {
			return nil, err
		}
	}

	lastLine := 0
	if len(lines) > 0 {
		lastLine = lines[len(lines)-1].Line
	}
	if err := p.closeSection(lastLine); err != nil {
		return nil, err
	}

	return p.output, nil
}

func (p *parser) handleLine(tl TokenizedLine) *asmerr.SyntaxError {
	switch tl.Token.Kind {
	case KeyLine:
		return p.handleKeyword(tl.Line, tl.Token.Keyword, tl.Token.Args)
	case LabelLine:
		return p.handleLabel(tl.Line, tl.Token.Label)
	case StepLine:
		return p.handleStepLine(tl.Line, tl.Token.Words)
	}
	return nil
}

// closeSection implements the "sectioning rule": flushing whatever is
// currently open (an instruction or a macro), clearing the recording
// flags, and resetting the conditional stack and currently_defined_im
// filter (spec.md §4.5).
func (p *parser) closeSection(line int) *asmerr.SyntaxError {
	if err := p.flushDef(line); err != nil {
		return err
	}
	p.flushMacro()
	p.recordingPrefix = false
	p.recordingSuffix = false
	p.condStack = nil
	p.currentlyDefinedIM = 0
	return nil
}

func (p *parser) flushMacro() {
	if p.currentMacro == nil {
		return
	}
	p.macros = append(p.macros, p.currentMacro)
	p.currentMacro = nil
}

// flushDef appends the remembered suffix to every template and moves the
// surviving ones (allowed IM, non-empty steps) to the output
// (spec.md §4.5's "Final flush").
func (p *parser) flushDef(line int) *asmerr.SyntaxError {
	if p.currentDef == nil {
		return nil
	}
	for _, def := range p.currentDef {
		if def.Mode&p.currentDefAllowedIMs == 0 {
			continue
		}
		for _, s := range filterSteps(p.suffix, def.Flags) {
			def.Steps = append(def.Steps, s)
			if len(def.Steps) > isa.MaxMicroStepCount {
				return asmerr.NewSyntaxErrorKind(line, asmerr.KindMaxStepCount, overflowMessage)
			}
		}
	}
	for _, def := range p.currentDef {
		if def.Mode&p.currentDefAllowedIMs == 0 {
			continue
		}
		if len(def.Steps) == 0 {
			continue
		}
		p.output = append(p.output, def)
	}
	p.currentDef = nil
	return nil
}

func (p *parser) lookupMacro(name string) (*MacroDef, bool) {
	for _, m := range p.macros {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (p *parser) handleKeyword(line int, keyword string, args []string) *asmerr.SyntaxError {
	switch keyword {
	case "def":
		return p.beginDef(line, args)
	case "macro":
		return p.beginMacro(line, args)
	case "pref":
		if err := p.closeSection(line); err != nil {
			return err
		}
		p.prefix = nil
		p.recordingPrefix = true
		return nil
	case "suf":
		if err := p.closeSection(line); err != nil {
			return err
		}
		p.suffix = nil
		p.recordingSuffix = true
		return nil
	case "if":
		return p.pushConditional(line, args)
	case "else":
		return p.invertConditional(line)
	case "end":
		return p.popConditional(line)
	default:
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Invalid keyword '%s'.", keyword))
	}
}

func (p *parser) beginDef(line int, args []string) *asmerr.SyntaxError {
	if len(args) != 1 || args[0] == "" {
		return asmerr.NewSyntaxError(line, "Missing instruction name.")
	}
	name := strings.ToLower(args[0])

	if err := p.closeSection(line); err != nil {
		return err
	}

	opcode, canonical, allowedIMs, ok := isa.Lookup(name)
	if !ok {
		return asmerr.NewSyntaxErrorKind(line, asmerr.KindUnknownInstruction,
			fmt.Sprintf("Unknown instruction '%s'.", name))
	}
	if p.definedMnemonics[canonical] {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Instruction '%s' is already defined.", canonical))
	}
	p.definedMnemonics[canonical] = true

	p.currentDef = make([]*InstructionDef, 0, isa.TotalDefCombinations)
	p.currentDefAllowedIMs = allowedIMs
	for _, mode := range isa.Modes() {
		for flags := uint32(0); flags < isa.FlagCombinations; flags++ {
			def := &InstructionDef{Mnemonic: canonical, Opcode: opcode, Mode: mode, Flags: flags}
			if mode&allowedIMs != 0 {
				def.Steps = filterSteps(p.prefix, flags)
			}
			p.currentDef = append(p.currentDef, def)
		}
	}
	return nil
}

func (p *parser) beginMacro(line int, args []string) *asmerr.SyntaxError {
	if len(args) != 1 || args[0] == "" {
		return asmerr.NewSyntaxError(line, "Missing macro name.")
	}
	name := strings.ToLower(args[0])

	if err := p.closeSection(line); err != nil {
		return err
	}

	if _, ok := isa.SignalIndex(name); ok {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Macro name '%s' collides with a control signal.", name))
	}
	if _, ok := p.lookupMacro(name); ok {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Macro '%s' is already defined.", name))
	}
	if _, _, _, ok := isa.Lookup(name); ok {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Macro name '%s' collides with an ISA mnemonic.", name))
	}

	p.currentMacro = &MacroDef{Name: name}
	return nil
}

func (p *parser) pushConditional(line int, args []string) *asmerr.SyntaxError {
	if len(args) != 1 || args[0] == "" {
		return asmerr.NewSyntaxError(line, "Missing flag name.")
	}
	raw := args[0]
	inverted := strings.HasPrefix(raw, "!")
	if inverted {
		raw = raw[1:]
	}
	flag := strings.ToLower(raw)
	if _, ok := isa.FlagBit(flag); !ok {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Unknown flag '%s'.", flag))
	}
	p.condStack = append(p.condStack, Conditional{Flag: flag, Inverted: inverted})
	return nil
}

func (p *parser) invertConditional(line int) *asmerr.SyntaxError {
	if len(p.condStack) == 0 {
		return asmerr.NewSyntaxError(line, "'#else' without a matching '#if'.")
	}
	top := len(p.condStack) - 1
	p.condStack[top].Inverted = !p.condStack[top].Inverted
	return nil
}

func (p *parser) popConditional(line int) *asmerr.SyntaxError {
	if len(p.condStack) == 0 {
		return asmerr.NewSyntaxError(line, "'#end' without a matching '#if'.")
	}
	p.condStack = p.condStack[:len(p.condStack)-1]
	return nil
}

func (p *parser) handleLabel(line int, label string) *asmerr.SyntaxError {
	if p.currentDef == nil {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("IM subsection label '%s:' outside a '#def'.", label))
	}
	mode, ok := isa.ModeByName(label)
	if !ok {
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Unknown instruction mode '%s'.", label))
	}
	if mode&p.currentDefAllowedIMs == 0 {
		return asmerr.NewSyntaxErrorKind(line, asmerr.KindInvalidMode,
			fmt.Sprintf("Instruction mode '%s' is not valid for this instruction.", label))
	}
	p.currentlyDefinedIM = mode
	return nil
}

func (p *parser) handleStepLine(line int, words []string) *asmerr.SyntaxError {
	primary, extra, err := p.resolveWords(line, words)
	if err != nil {
		return err
	}

	var steps []ConditionalStep
	if len(primary) > 0 {
		steps = append(steps, ConditionalStep{
			Exponents:  primary,
			Conditions: append([]Conditional(nil), p.condStack...),
		})
	}
	steps = append(steps, extra...)

	switch {
	case p.recordingPrefix:
		p.prefix = append(p.prefix, steps...)
		if len(p.prefix) > isa.MaxMicroStepCount {
			return asmerr.NewSyntaxErrorKind(line, asmerr.KindMaxStepCount,
				"Invalid prefix, maximum step count is 16.")
		}
	case p.recordingSuffix:
		p.suffix = append(p.suffix, steps...)
		if len(p.suffix) > isa.MaxMicroStepCount {
			return asmerr.NewSyntaxErrorKind(line, asmerr.KindMaxStepCount,
				"Invalid suffix, maximum step count is 16.")
		}
	case p.currentMacro != nil:
		p.currentMacro.Steps = append(p.currentMacro.Steps, steps...)
	case p.currentDef != nil:
		return p.pushStepsToDef(line, steps)
	default:
		return asmerr.NewSyntaxError(line, "Step line outside any '#def', '#macro', '#pref' or '#suf' section.")
	}
	return nil
}

// resolveWords implements the StepLine mixing rule: each word is either a
// control signal or a macro invocation (spec.md §4.5).
func (p *parser) resolveWords(line int, words []string) (primary []int, extra []ConditionalStep, err *asmerr.SyntaxError) {
	for _, w := range words {
		if idx, ok := isa.SignalIndex(w); ok {
			primary = append(primary, idx)
			continue
		}
		if m, ok := p.lookupMacro(w); ok {
			switch {
			case len(m.Steps) > 1:
				if len(words) > 1 {
					return nil, nil, asmerr.NewSyntaxError(line,
						fmt.Sprintf("Macro '%s' has multiple steps and cannot share a line with other words.", w))
				}
				for _, s := range m.Steps {
					extra = append(extra, ConditionalStep{
						Exponents:  append([]int(nil), s.Exponents...),
						Conditions: mergeConditions(s.Conditions, p.condStack),
					})
				}
			case len(m.Steps) == 1:
				primary = append(primary, m.Steps[0].Exponents...)
			}
			continue
		}
		return nil, nil, asmerr.NewSyntaxError(line, fmt.Sprintf("Unknown control signal or macro '%s'.", w))
	}
	return primary, extra, nil
}

func mergeConditions(a, b []Conditional) []Conditional {
	out := append([]Conditional(nil), a...)
	out = append(out, b...)
	return out
}

// pushStepsToDef resolves freshly-built steps against every live template
// of the instruction currently being defined (spec.md §4.5's "Instruction
// open" rule).
func (p *parser) pushStepsToDef(line int, steps []ConditionalStep) *asmerr.SyntaxError {
	for _, tmpl := range p.currentDef {
		if tmpl.Mode&p.currentDefAllowedIMs == 0 {
			continue
		}
		if p.currentlyDefinedIM != 0 && tmpl.Mode != p.currentlyDefinedIM {
			continue
		}
		for _, s := range steps {
			if !conditionsSatisfied(s.Conditions, tmpl.Flags) {
				continue
			}
			tmpl.Steps = append(tmpl.Steps, MicroStep{Exponents: append([]int(nil), s.Exponents...)})
			if len(tmpl.Steps) > isa.MaxMicroStepCount {
				return asmerr.NewSyntaxErrorKind(line, asmerr.KindMaxStepCount,
					"Invalid instruction definition, maximum step count is 16.")
			}
		}
	}
	return nil
}
