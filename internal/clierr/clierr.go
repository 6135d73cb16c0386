// Package clierr centralizes the "[line L] Error..." diagnostic format
// used by the compiler's compile-time errors (§4.3.5, §7). The VM's
// RuntimeError formats its own message and does not use this package.
package clierr

import "fmt"

// AtToken renders a compile-time diagnostic in the exact format §4.3.5
// specifies, including the no-space "Errorat end" quirk for EOF tokens
// (preserved byte-for-byte per spec's explicit instruction not to "fix"
// it).
//
//   - where == "" (an ERROR token): "[line L] Error: <msg>"
//   - where == "at end" (EOF):      "[line L] Errorat end: <msg>"
//   - where == " at '<lexeme>'":    "[line L] Error at '<lexeme>': <msg>"
func AtToken(line int, where string, message string) string {
	return fmt.Sprintf("[line %d] Error%s: %s", line, where, message)
}
