package constants

// TokenClass is the coarse class assigned to one whitespace token.
type TokenClass string

// Stable values (these exact strings form shape signatures; learned
// patterns are keyed on them, so they must never change).
const (
	TokenDate     TokenClass = "<DATE>"
	TokenNumber   TokenClass = "<NUM>"
	TokenCurrency TokenClass = "<CUR>"
	TokenText     TokenClass = "<TXT>"
)
