package asm

import (
	"fmt"
	"strings"

	"github.com/janstaffa/tower/asmerr"
	"github.com/janstaffa/tower/isa"
)

// parser holds the single-pass state described by spec.md §4.2: emitted
// instructions, recorded macros, the macro currently being defined (if
// any), resolved labels, pending back-patch references, and the running
// byte address of the next emitted instruction.
type parser struct {
	instructions []Instruction
	macros       macroTable
	labels       labelTable
	pendingRefs  []pendingRef

	currentAddress uint32

	definingMacro bool
	currentMacro  *MacroDef
}

// Parse expands macros and resolves labels over a tokenized program,
// producing a fully-resolved instruction list ready for encoding
// (spec.md §4.2).
func Parse(lines []TokenizedLine) ([]Instruction, *asmerr.SyntaxError) {
	p := &parser{}

	for _, tl := range lines {
		if err := p.handleLine(tl); err != nil {
			return nil, err
		}
	}

	if p.definingMacro {
		return nil, asmerr.NewSyntaxError(lines[len(lines)-1].Line,
			"Unterminated '#macro' block, missing '#end'.")
	}

	if err := p.backpatch(); err != nil {
		return nil, err
	}

	return p.instructions, nil
}

func (p *parser) handleLine(tl TokenizedLine) *asmerr.SyntaxError {
	switch tl.Token.Kind {
	case TokInstruction:
		return p.handleInstruction(tl.Line, tl.Token.Name, tl.Token.RawArgs, nil)
	case TokLabel:
		return p.handleLabel(tl.Line, tl.Token.LabelName)
	case TokMarker:
		return p.handleMarker(tl.Line, tl.Token.Keyword, tl.Token.Args)
	}
	return nil
}

// handleInstruction implements spec.md §4.2's "Instruction line" rules.
// trace is the expansion call stack already accumulated for this
// occurrence (nil at top level).
func (p *parser) handleInstruction(line int, name string, rawArgs []string, trace []string) *asmerr.SyntaxError {
	parsed := make([]analyzedArg, len(rawArgs))
	for i, raw := range rawArgs {
		aa, err := analyzeArgument(raw)
		if err != nil {
			return asmerr.NewSyntaxError(line, err.Error())
		}
		parsed[i] = aa

		if aa.Arg != nil && aa.Arg.Kind == ArgImplicit {
			if !p.definingMacro {
				return asmerr.NewSyntaxErrorKind(line, asmerr.KindGeneric,
					"Macro parameter placeholder used outside a macro definition.")
			}
			recordParam(p.currentMacro, int(aa.Arg.Value))
		}
	}

	if opcode, canonical, allowedIMs, ok := isa.Lookup(name); ok {
		_ = opcode
		return p.handleISAInstruction(line, canonical, allowedIMs, parsed, trace)
	}

	if macro, ok := p.macros.lookup(name); ok {
		return p.handleMacroCall(line, macro, rawArgs, trace)
	}

	return asmerr.NewSyntaxError(line, fmt.Sprintf("Unknown instruction '%s'.", name))
}

func (p *parser) handleISAInstruction(line int, mnemonic string, allowedIMs isa.IM, parsed []analyzedArg, trace []string) *asmerr.SyntaxError {
	if len(parsed) > 1 {
		return asmerr.NewSyntaxError(line, "Instructions can only have one argument.")
	}

	var mode isa.IM
	var arg *Argument
	isImplicitPlaceholder := false

	if len(parsed) == 1 {
		mode = parsed[0].Mode
		arg = parsed[0].Arg
		isImplicitPlaceholder = arg != nil && arg.Kind == ArgImplicit

		if !isImplicitPlaceholder {
			if mode == 0 {
				return asmerr.NewSyntaxErrorKind(line, asmerr.KindInvalidMode,
					fmt.Sprintf("Instruction '%s' requires an addressing mode sigil.", mnemonic))
			}
			if mode&allowedIMs == 0 {
				return asmerr.NewSyntaxErrorKind(line, asmerr.KindInvalidMode,
					fmt.Sprintf("Invalid addressing mode for '%s'. Allowed modes: %s.",
						mnemonic, describeAllowedModes(allowedIMs)))
			}
		}
	} else {
		mode = isa.Implied
		if mode&allowedIMs == 0 {
			return asmerr.NewSyntaxErrorKind(line, asmerr.KindInvalidMode,
				fmt.Sprintf("Instruction '%s' requires an argument. Allowed modes: %s.",
					mnemonic, describeAllowedModes(allowedIMs)))
		}
	}

	inst := Instruction{Mnemonic: mnemonic, Mode: mode, Arg: arg, Line: line, Trace: trace}

	if p.definingMacro {
		p.currentMacro.Body = append(p.currentMacro.Body, inst)
		return nil
	}
	return p.emit(inst)
}

func (p *parser) handleMacroCall(line int, macro *MacroDef, rawArgs []string, trace []string) *asmerr.SyntaxError {
	if len(rawArgs) != len(macro.Params) {
		return asmerr.NewSyntaxErrorKind(line, asmerr.KindMacroArity,
			fmt.Sprintf("Wrong number of arguments for macro '%s'. This macro requires %d argument(s).",
				macro.Name, len(macro.Params)))
	}

	for _, bodyInst := range macro.Body {
		instTrace := append([]string{macro.Name}, bodyInst.Trace...)
		newInst, err := substituteMacroArgs(bodyInst, rawArgs, line, instTrace)
		if err != nil {
			return err
		}
		newInst.Trace = instTrace

		if p.definingMacro {
			p.currentMacro.Body = append(p.currentMacro.Body, newInst)
			continue
		}
		if err := p.emit(newInst); err != nil {
			return err
		}
	}
	return nil
}

// formatTrace renders a macro expansion call stack as the diagnostic
// suffix spec.md §7 requires on expansion-time errors, outermost call
// first ("... (macro trace: outer -> inner)"). Returns "" at top level.
func formatTrace(trace []string) string {
	if len(trace) == 0 {
		return ""
	}
	return fmt.Sprintf(" (macro trace: %s)", strings.Join(trace, " -> "))
}

// substituteMacroArgs resolves a macro body instruction's Implicit
// argument (if any) against the call-site raw arguments, per spec.md
// §4.2's "the effective IM of a macro body instruction comes from the
// call site, unless the body already fixed a mode for that slot." trace
// is this occurrence's macro call stack, used only to annotate errors.
func substituteMacroArgs(bodyInst Instruction, callArgs []string, line int, trace []string) (Instruction, *asmerr.SyntaxError) {
	out := bodyInst
	out.Line = line

	if out.Arg == nil || out.Arg.Kind != ArgImplicit {
		return out, nil
	}

	idx := int(out.Arg.Value) - 1
	if idx < 0 || idx >= len(callArgs) {
		return Instruction{}, asmerr.NewSyntaxError(line,
			fmt.Sprintf("Macro parameter index '$%d' is out of range.%s", out.Arg.Value, formatTrace(trace)))
	}

	callSite, err := analyzeArgument(callArgs[idx])
	if err != nil {
		return Instruction{}, asmerr.NewSyntaxError(line, err.Error()+formatTrace(trace))
	}

	if bodyInst.Mode != 0 {
		// The body already fixed a mode via its own sigil; only the
		// argument value/kind comes from the call site.
		out.Arg = callSite.Arg
	} else {
		out.Mode = callSite.Mode
		out.Arg = callSite.Arg
	}

	if out.Arg == nil || out.Arg.Kind == ArgImplicit {
		return Instruction{}, asmerr.NewSyntaxError(line,
			fmt.Sprintf("Macro parameter '$%d' did not resolve to a concrete argument.%s", idx+1, formatTrace(trace)))
	}
	if out.Mode == 0 {
		return Instruction{}, asmerr.NewSyntaxErrorKind(line, asmerr.KindInvalidMode,
			fmt.Sprintf("Expanded instruction '%s' has no addressing mode.%s", out.Mnemonic, formatTrace(trace)))
	}
	if _, _, allowedIMs, ok := isa.Lookup(out.Mnemonic); ok && out.Mode&allowedIMs == 0 {
		return Instruction{}, asmerr.NewSyntaxErrorKind(line, asmerr.KindInvalidMode,
			fmt.Sprintf("Invalid addressing mode for '%s'. Allowed modes: %s.%s",
				out.Mnemonic, describeAllowedModes(allowedIMs), formatTrace(trace)))
	}

	return out, nil
}

// emit appends a fully-resolved instruction to the output, registers a
// pending label back-patch if needed, and advances the address counter
// (spec.md §3.3's label address law, §4.3).
func (p *parser) emit(inst Instruction) *asmerr.SyntaxError {
	idx := len(p.instructions)
	p.instructions = append(p.instructions, inst)

	if inst.Arg != nil && inst.Arg.Kind == ArgLabel {
		p.pendingRefs = append(p.pendingRefs, pendingRef{
			Index: idx, Name: inst.Arg.Name, Line: inst.Line, Trace: inst.Trace,
		})
	}

	p.currentAddress += uint32(1 + inst.Mode.ArgSize())
	return nil
}

func (p *parser) handleLabel(line int, name string) *asmerr.SyntaxError {
	if !p.labels.define(name, p.currentAddress) {
		return asmerr.NewSyntaxErrorKind(line, asmerr.KindDuplicateLabel,
			fmt.Sprintf("Label '%s' is already defined.", name))
	}
	return nil
}

func (p *parser) handleMarker(line int, keyword string, args []string) *asmerr.SyntaxError {
	switch keyword {
	case "macro":
		if len(args) != 1 || args[0] == "" {
			return asmerr.NewSyntaxError(line, "Missing macro name.")
		}
		if p.definingMacro {
			return asmerr.NewSyntaxError(line, "Nested '#macro' definitions are not allowed.")
		}
		if _, ok := p.macros.lookup(args[0]); ok {
			return asmerr.NewSyntaxError(line, fmt.Sprintf("Macro '%s' is already defined.", args[0]))
		}
		p.definingMacro = true
		p.currentMacro = &MacroDef{Name: args[0]}
		return nil

	case "end":
		if !p.definingMacro {
			return asmerr.NewSyntaxError(line, "Invalid usage of '#end', there is no scope to be ended.")
		}
		if !validateContiguousParams(p.currentMacro.Params) {
			return asmerr.NewSyntaxErrorKind(line, asmerr.KindMacroParams,
				fmt.Sprintf("Macro '%s' has non-contiguous parameter indices.", p.currentMacro.Name))
		}
		p.macros.define(p.currentMacro)
		p.definingMacro = false
		p.currentMacro = nil
		return nil

	case "include":
		// Reserved, intentionally inert (spec.md §4.2, §9).
		return nil

	default:
		return asmerr.NewSyntaxError(line, fmt.Sprintf("Invalid keyword '%s'.", keyword))
	}
}

// backpatch resolves every pending label reference against the final
// label table (spec.md §4.2's "Back-patching").
func (p *parser) backpatch() *asmerr.SyntaxError {
	for _, ref := range p.pendingRefs {
		label, ok := p.labels.lookup(ref.Name)
		if !ok {
			return asmerr.NewSyntaxErrorKind(ref.Line, asmerr.KindUndefinedLabel,
				fmt.Sprintf("Undefined label '%s'.%s", ref.Name, formatTrace(ref.Trace)))
		}
		p.instructions[ref.Index].Arg = &Argument{Kind: ArgExplicit, Value: label.Address}
	}
	return nil
}

func describeAllowedModes(mask isa.IM) string {
	var names []string
	for _, m := range isa.Modes() {
		if mask&m != 0 {
			names = append(names, m.Name())
		}
	}
	return strings.Join(names, ", ")
}
