package asm

import (
	"strconv"
	"strings"

	"github.com/janstaffa/tower/isa"
)

// analyzedArg is the result of analyzing one raw argument string: its
// instruction mode (0 if no sigil was present) and its parsed Argument.
type analyzedArg struct {
	Mode isa.IM
	Arg  *Argument
}

// analyzeArgument implements spec.md §4.2's argument analysis: sigil-based
// IM selection, `$N` macro-parameter references, and numeric/label literal
// parsing. Grounded on original_source/assembler/src/asm/asm.rs's
// analyze_arg/parse_arg pair, merged into one pass since both inspect the
// same sigil.
func analyzeArgument(raw string) (analyzedArg, error) {
	mode, body, err := stripSigil(raw)
	if err != nil {
		return analyzedArg{}, err
	}

	if strings.HasPrefix(body, "$") {
		n, err := strconv.ParseUint(body[1:], 10, 32)
		if err != nil || n < 1 {
			return analyzedArg{}, errInvalidMacroParam(body[1:])
		}
		return analyzedArg{Mode: mode, Arg: &Argument{Kind: ArgImplicit, Value: uint32(n)}}, nil
	}

	// RegA/RegB sigils carry no argument value.
	if mode == isa.RegA || mode == isa.RegB {
		return analyzedArg{Mode: mode, Arg: nil}, nil
	}

	if val, ok := parseNumeric(body); ok {
		return analyzedArg{Mode: mode, Arg: &Argument{Kind: ArgExplicit, Value: val}}, nil
	}

	// Not numeric, and the body doesn't start with a digit: a label
	// reference. A bare identifier defaults to Constant mode; an explicit
	// sigil (only "&" makes sense for an address literal) keeps its own
	// mode. Labels resolve to 16-bit addresses (spec.md §4.2, §9).
	if (mode == 0 || mode == isa.Constant) && len(body) > 0 && !(body[0] >= '0' && body[0] <= '9') {
		if mode == 0 {
			mode = isa.Constant
		}
		return analyzedArg{Mode: mode, Arg: &Argument{Kind: ArgLabel, Name: body}}, nil
	}

	return analyzedArg{}, errInvalidNumber(raw)
}

// stripSigil inspects an argument's leading sigil and returns the selected
// IM (0 if none) and the remaining body string. "%a"/"%b" consume both
// characters and leave an empty body; any other "%x" is an error.
func stripSigil(raw string) (isa.IM, string, error) {
	if raw == "" {
		return 0, "", errEmptyArgument()
	}
	switch raw[0] {
	case '#':
		return isa.Immediate, raw[1:], nil
	case '*':
		return isa.Absolute, raw[1:], nil
	case '@':
		return isa.Indirect, raw[1:], nil
	case '&':
		return isa.Constant, raw[1:], nil
	case '%':
		if len(raw) < 2 {
			return 0, "", errInvalidRegister(raw)
		}
		switch raw[1] {
		case 'a':
			return isa.RegA, raw[2:], nil
		case 'b':
			return isa.RegB, raw[2:], nil
		default:
			return 0, "", errInvalidRegister(raw)
		}
	default:
		return 0, raw, nil
	}
}

// parseNumeric parses a decimal, "0x" hex, or "0b" binary literal.
func parseNumeric(body string) (uint32, bool) {
	if body == "" {
		return 0, false
	}
	var v uint64
	var err error
	switch {
	case strings.HasPrefix(body, "0x"):
		v, err = strconv.ParseUint(body[2:], 16, 32)
	case strings.HasPrefix(body, "0b"):
		v, err = strconv.ParseUint(body[2:], 2, 32)
	default:
		v, err = strconv.ParseUint(body, 10, 32)
	}
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
