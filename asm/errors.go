package asm

import "fmt"

// These helpers build the plain errors analyzeArgument and the parser
// raise; callers attach the source line to produce an asmerr.SyntaxError.

func errEmptyArgument() error {
	return fmt.Errorf("empty argument")
}

func errInvalidRegister(raw string) error {
	return fmt.Errorf("invalid register argument '%s'", raw)
}

func errInvalidMacroParam(body string) error {
	return fmt.Errorf("invalid macro parameter reference '$%s'", body)
}

func errInvalidNumber(raw string) error {
	return fmt.Errorf("invalid argument '%s'", raw)
}
