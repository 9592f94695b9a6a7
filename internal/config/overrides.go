package config

import (
	"fmt"
	"strings"
)

// Override is a parsed key=value token from the command line.
type Override struct {
	Key   string
	Value interface{}
	Raw   string
}

// MalformedTokenError reports a token that does not have the key=value
// shape. It carries the full token list so the diagnostic can show what
// was actually supplied.
type MalformedTokenError struct {
	Token  string
	Tokens []string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("overrides must have the form key=value; got: %v", e.Tokens)
}

// ApplyError reports an unexpected failure assigning a single override.
type ApplyError struct {
	Key   string
	Value string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("error applying override (%s, %s)", e.Key, e.Value)
}

// ParseOverrides turns raw key=value tokens into typed overrides. Every
// token must contain exactly one '='. Values go through the literal
// parser; values the grammar rejects are kept as plain strings.
func ParseOverrides(tokens []string) ([]Override, error) {
	overrides := make([]Override, 0, len(tokens))
	for _, tok := range tokens {
		if strings.Count(tok, "=") != 1 {
			return nil, &MalformedTokenError{Token: tok, Tokens: tokens}
		}
		parts := strings.SplitN(tok, "=", 2)
		k, raw := parts[0], parts[1]
		v, err := ParseLiteral(raw)
		if err != nil {
			v = raw
		}
		overrides = append(overrides, Override{Key: k, Value: v, Raw: raw})
	}
	return overrides, nil
}

// Apply assigns each override into the parameter set. Overrides are
// parsed up front by ParseOverrides, so a malformed token never mutates
// the mapping; failures here are of the distinct application class.
func (p Params) Apply(overrides []Override) error {
	for _, ov := range overrides {
		if ov.Key == "" {
			return &ApplyError{Key: ov.Key, Value: ov.Raw}
		}
		p[ov.Key] = ov.Value
	}
	return nil
}
