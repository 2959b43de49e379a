package asm

import (
	"strings"

	"github.com/janstaffa/tower/asmerr"
)

// commentIdent is the program source comment character (spec.md §4.1 rule 1,
// §6.1). Grounded on original_source/assembler/src/asm/asm.rs's COMMENT_IDENT.
const commentIdent = ';'

// Tokenize turns program source text into a list of TokenizedLines, or
// returns the first SyntaxError encountered (spec.md §4.1).
func Tokenize(source string) ([]TokenizedLine, *asmerr.SyntaxError) {
	var lines []TokenizedLine

	for i, rawLine := range strings.Split(source, "\n") {
		realLine := i + 1
		line := strings.TrimSpace(rawLine)

		if idx := strings.IndexByte(line, commentIdent); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		if line == "" {
			continue
		}

		var tok Token
		switch {
		case line[0] == '#':
			if len(line) == 1 {
				return nil, asmerr.NewSyntaxError(realLine, "No keyword was specified.")
			}
			words := strings.Fields(line)
			args := make([]string, len(words)-1)
			for i, w := range words[1:] {
				args[i] = strings.ToLower(w)
			}
			tok = Token{
				Kind:    TokMarker,
				Keyword: strings.ToLower(words[0][1:]),
				Args:    args,
			}

		case line[len(line)-1] == ':':
			words := strings.Fields(line)
			if len(words) != 1 {
				return nil, asmerr.NewSyntaxError(realLine,
					"Invalid label definition, a label can only be one word.")
			}
			name := words[0][:len(words[0])-1]
			if err := validateLabelName(name, realLine); err != nil {
				return nil, err
			}
			tok = Token{Kind: TokLabel, LabelName: strings.ToLower(name)}

		default:
			words := strings.Fields(line)
			mnemonic := strings.ToLower(words[0])
			var rawArgs []string
			if len(words) > 1 {
				argStr := strings.Join(words[1:], " ")
				for _, a := range strings.Split(argStr, ",") {
					a = strings.ToLower(strings.TrimSpace(a))
					if a == "" || strings.ContainsAny(a, " \t") {
						return nil, asmerr.NewSyntaxError(realLine,
							"Invalid argument '"+a+"', arguments can only be one word. "+
								"If you want to specify two arguments separate them by a comma.")
					}
					rawArgs = append(rawArgs, a)
				}
			}
			tok = Token{Kind: TokInstruction, Name: mnemonic, RawArgs: rawArgs}
		}

		lines = append(lines, TokenizedLine{Line: realLine, Token: tok})
	}

	if len(lines) == 0 {
		return nil, asmerr.NewSyntaxError(0, "No code was found.")
	}
	return lines, nil
}

// validateLabelName enforces spec.md §4.1 rule 4's label-name grammar:
// non-empty, starts with a letter, and contains only [A-Za-z0-9_].
func validateLabelName(name string, line int) *asmerr.SyntaxError {
	if name == "" {
		return asmerr.NewSyntaxError(line, "Invalid label definition, a label name cannot be empty.")
	}
	first := name[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return asmerr.NewSyntaxError(line,
			"Invalid label name '"+name+"'. A label must start with a letter.")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return asmerr.NewSyntaxError(line,
				"Invalid label name '"+name+"'. Label name can only contain characters a-z, 0-9 or '_'.")
		}
	}
	return nil
}
