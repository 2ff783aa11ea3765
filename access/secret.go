package access

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCode is the shared passcode printed on the invitation.
const DefaultCode = "JUL2024"

// Secret is the fixed passcode the gate compares against.
// It is shown to visitors as a hint and offers no confidentiality.
type Secret struct {
	code string
}

// NewSecret returns a Secret for code. An empty code falls back to DefaultCode.
// The code is stored upper-cased since candidates are upper-cased before comparing.
func NewSecret(code string) Secret {
	if code == "" {
		code = DefaultCode
	}
	return Secret{code: Normalize(code)}
}

// Code returns the literal passcode, used for the hint on the gate.
func (s Secret) Code() string {
	if s.code == "" {
		return DefaultCode
	}
	return s.code
}

// Matches reports whether candidate, upper-cased, equals the passcode exactly.
// No trimming is done.
func (s Secret) Matches(candidate string) bool {
	return Normalize(candidate) == s.Code()
}

// Normalize upper-cases input the way the gate field does while typing.
// Full case mapping is used, so "ß" becomes "SS".
func Normalize(input string) string {
	return cases.Upper(language.Und).String(input)
}
