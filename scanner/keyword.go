package scanner

import "clox/token"

// identifierKind classifies an already-scanned identifier lexeme as a
// keyword or a plain IDENTIFIER, matching first letter then checking the
// remaining bytes in one comparison (the same hand-rolled trie shape the
// reference scanner uses, rather than a map lookup for every identifier).
//
// NOTE: the reference scanner's 't' branch falls through into its 'v'
// branch when the second letter is neither 'h' nor 'r' (single-letter
// "tX" identifiers get misclassified as VAR). That's a bug, not a
// feature of the grammar; this version returns directly from the 't'
// branch instead of falling through.
func identifierKind(lexeme []byte) token.Kind {
	if len(lexeme) == 0 {
		return token.IDENTIFIER
	}

	switch lexeme[0] {
	case 'a':
		return checkKeyword(lexeme, "and", token.AND)
	case 'c':
		return checkKeyword(lexeme, "class", token.CLASS)
	case 'e':
		return checkKeyword(lexeme, "else", token.ELSE)
	case 'f':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'a':
				return checkKeyword(lexeme, "false", token.FALSE)
			case 'o':
				return checkKeyword(lexeme, "for", token.FOR)
			case 'u':
				return checkKeyword(lexeme, "fun", token.FUN)
			}
		}
	case 'i':
		return checkKeyword(lexeme, "if", token.IF)
	case 'n':
		return checkKeyword(lexeme, "nil", token.NIL)
	case 'o':
		return checkKeyword(lexeme, "or", token.OR)
	case 'p':
		return checkKeyword(lexeme, "print", token.PRINT)
	case 'r':
		return checkKeyword(lexeme, "return", token.RETURN)
	case 's':
		return checkKeyword(lexeme, "super", token.SUPER)
	case 't':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'h':
				return checkKeyword(lexeme, "this", token.THIS)
			case 'r':
				return checkKeyword(lexeme, "true", token.TRUE)
			}
		}
		return token.IDENTIFIER
	case 'v':
		return checkKeyword(lexeme, "var", token.VAR)
	case 'w':
		return checkKeyword(lexeme, "while", token.WHILE)
	}

	return token.IDENTIFIER
}

// checkKeyword reports kind only if lexeme matches word exactly in both
// length and bytes; any prefix or extension of a keyword is an IDENTIFIER.
func checkKeyword(lexeme []byte, word string, kind token.Kind) token.Kind {
	if len(lexeme) != len(word) {
		return token.IDENTIFIER
	}
	if string(lexeme) != word {
		return token.IDENTIFIER
	}
	return kind
}
