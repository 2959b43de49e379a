package microasm

import (
	"strings"

	"github.com/janstaffa/tower/asmerr"
)

// commentIdent mirrors asm.commentIdent (spec.md §4.1, §4.4).
const commentIdent = ';'

// Tokenize turns microcode source text into a list of TokenizedLines
// (spec.md §4.4). The line classifier differs from the program
// assembler's: label lines mark IM subsections rather than jump targets,
// and step lines split on whitespace or commas.
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
				Kind:    KeyLine,
				Keyword: strings.ToLower(words[0][1:]),
				Args:    args,
			}

		case line[len(line)-1] == ':' && len(strings.Fields(line)) == 1:
			word := strings.Fields(line)[0]
			tok = Token{Kind: LabelLine, Label: strings.ToLower(word[:len(word)-1])}

		default:
			words := strings.FieldsFunc(line, func(r rune) bool {
				return r == ' ' || r == '\t' || r == ','
			})
			lowered := make([]string, 0, len(words))
			for _, w := range words {
				if w == "" {
					continue
				}
				lowered = append(lowered, strings.ToLower(w))
			}
			tok = Token{Kind: StepLine, Words: lowered}
		}

		lines = append(lines, TokenizedLine{Line: realLine, Token: tok})
	}

	if len(lines) == 0 {
		return nil, asmerr.NewSyntaxError(0, "No code was found.")
	}
	return lines, nil
}
