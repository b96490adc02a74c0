package selector

import "fmt"

// ErrorKind classifies why a line selector was rejected.
type ErrorKind int

const (
	// Syntax errors, raised by Parse.
	KindEmpty ErrorKind = iota
	KindNotANumber
	KindWhitespace
	KindArity

	// Value errors. Zero is rejected by Parse since it does not depend on
	// the input; the rest are raised by Normalize.
	KindZero
	KindZeroStep
	KindOutOfRange
	KindInvertedPositive
	KindInvertedNegative
)

// String returns a short identifier for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNotANumber:
		return "not_a_number"
	case KindWhitespace:
		return "whitespace"
	case KindArity:
		return "arity"
	case KindZero:
		return "zero"
	case KindZeroStep:
		return "zero_step"
	case KindOutOfRange:
		return "out_of_range"
	case KindInvertedPositive:
		return "inverted_positive"
	case KindInvertedNegative:
		return "inverted_negative"
	default:
		return "unknown"
	}
}

// IsSyntax reports whether the kind is a textual parse failure.
func (k ErrorKind) IsSyntax() bool {
	return k <= KindArity
}

// Error describes a rejected line selector.
type Error struct {
	Token  string    // the selector as the user wrote it
	Kind   ErrorKind // what went wrong
	Part   string    // offending sub-string, for syntax errors
	Value  int       // offending value, for out-of-range errors
	NLines int       // number of lines in the input, for out-of-range errors
}

// Reason returns the violated rule without the token prefix.
func (e *Error) Reason() string {
	switch e.Kind {
	case KindEmpty:
		return "line number can't be empty"
	case KindNotANumber:
		return fmt.Sprintf("value `%s` is not a number", e.Part)
	case KindWhitespace:
		return "whitespace isn't allowed inside a line selector"
	case KindArity:
		return "a line selector has at most three parts (start:end:step)"
	case KindZero:
		return "zero is not allowed, use positive numbers (1, 2, ...) or negative numbers (-1, -2, ...) for backward counting"
	case KindZeroStep:
		return "the step of a range can't be zero"
	case KindOutOfRange:
		return fmt.Sprintf("line %d is out of range (input has only %d line(s))", e.Value, e.NLines)
	case KindInvertedPositive:
		return "the start of the range can't be more than its end when the step is positive"
	case KindInvertedNegative:
		return "the start of the range can't be less than its end when the step is negative"
	default:
		return "unknown error"
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid line selector `%s`: %s", e.Token, e.Reason())
}

func newError(token string, kind ErrorKind) *Error {
	return &Error{Token: token, Kind: kind}
}
