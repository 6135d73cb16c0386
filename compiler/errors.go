package compiler

import "clox/internal/clierr"

// CompileError is a single compile-time diagnostic: unexpected token,
// missing terminator, constant-pool overflow, invalid assignment target.
// Kept as a small struct implementing error, the same "typed error with
// an Error() string method" idiom the teacher uses for SemanticError and
// DeveloperError, rather than reaching for an errors-wrapping library.
type CompileError struct {
	Line    int
	Where   string
	Message string
}

func (e CompileError) Error() string {
	return clierr.AtToken(e.Line, e.Where, e.Message)
}
