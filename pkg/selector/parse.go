package selector

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind is the syntactic form of a raw selector.
type Kind int

const (
	KindSingle  Kind = iota // N
	KindRange               // start:end
	KindStepped             // start:end:step
)

// Raw is a one-based line selector exactly as written by the user. It has
// not been checked against the length of any input.
//
// For KindSingle only Start is set. A nil bound means the range is open on
// that side; a nil Step means 1.
type Raw struct {
	Token string
	Kind  Kind
	Start *int
	End   *int
	Step  *int
}

// Parse parses one selector token such as "7", "-5:", "3:10:2" or "::-1".
//
// Surrounding whitespace is trimmed. Zero is rejected for every component,
// independently of the input it will later be applied to.
func Parse(token string) (Raw, error) {
	token = strings.TrimSpace(token)
	raw := Raw{Token: token}

	if token == "" {
		return raw, newError(token, KindEmpty)
	}
	if strings.ContainsFunc(token, unicode.IsSpace) {
		return raw, newError(token, KindWhitespace)
	}

	parts := strings.Split(token, ":")
	switch len(parts) {
	case 1:
		n, err := parseNumber(token, parts[0])
		if err != nil {
			return raw, err
		}
		if n == nil {
			return raw, newError(token, KindEmpty)
		}
		raw.Kind = KindSingle
		raw.Start = n
		return raw, nil
	case 2, 3:
	default:
		return raw, newError(token, KindArity)
	}

	start, err := parseNumber(token, parts[0])
	if err != nil {
		return raw, err
	}
	end, err := parseNumber(token, parts[1])
	if err != nil {
		return raw, err
	}
	raw.Kind = KindRange
	raw.Start = start
	raw.End = end

	if len(parts) == 3 {
		raw.Kind = KindStepped
		step, err := parseInt(token, parts[2])
		if err != nil {
			return raw, err
		}
		if step != nil && *step == 0 {
			return raw, newError(token, KindZeroStep)
		}
		raw.Step = step
	}

	return raw, nil
}

// ParseList parses a comma-separated list of selectors, keeping their order.
func ParseList(s string) ([]Raw, error) {
	tokens := strings.Split(s, ",")
	raws := make([]Raw, 0, len(tokens))
	for _, token := range tokens {
		raw, err := Parse(token)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// parseNumber parses a line number component, rejecting zero.
func parseNumber(token, part string) (*int, error) {
	n, err := parseInt(token, part)
	if err != nil {
		return nil, err
	}
	if n != nil && *n == 0 {
		return nil, newError(token, KindZero)
	}
	return n, nil
}

// parseInt returns nil for an empty part.
func parseInt(token, part string) (*int, error) {
	if part == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		e := newError(token, KindNotANumber)
		e.Part = part
		return nil, e
	}
	return &n, nil
}

// String returns the token the selector was parsed from.
func (r Raw) String() string {
	return r.Token
}
