package quantity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/unit"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokMul
	tokDiv
	tokPow
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// magnitudePattern matches a leading decimal magnitude.
//
//nolint:gochecknoglobals // Compiled once.
var magnitudePattern = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// splitMagnitude separates "<magnitude> <unit>" text. A missing magnitude is 1.
// NaN and infinite magnitudes are recognised so callers can decide how to treat them.
func splitMagnitude(text string) (float64, string, error) {
	s := strings.TrimSpace(text)
	if loc := magnitudePattern.FindStringIndex(s); loc != nil {
		mag, err := strconv.ParseFloat(s[:loc[1]], 64)
		if err != nil {
			return 0, "", &UnitParseError{Text: text, Reason: err.Error(), Err: ErrInvalidMagnitude}
		}
		return mag, strings.TrimSpace(s[loc[1]:]), nil
	}

	head, rest, _ := strings.Cut(s, " ")
	switch strings.ToLower(strings.TrimLeft(head, "+-")) {
	case "nan":
		return math.NaN(), strings.TrimSpace(rest), nil
	case "inf", "infinity":
		mag := math.Inf(1)
		if strings.HasPrefix(head, "-") {
			mag = math.Inf(-1)
		}
		return mag, strings.TrimSpace(rest), nil
	}
	return 1, s, nil
}

func lex(text string) ([]token, error) {
	var out []token
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				out = append(out, token{kind: tokPow, text: "**"})
				i += 2
				continue
			}
			out = append(out, token{kind: tokMul, text: "*"})
			i++
		case r == '^':
			out = append(out, token{kind: tokPow, text: "^"})
			i++
		case r == '/':
			out = append(out, token{kind: tokDiv, text: "/"})
			i++
		case r == '(':
			out = append(out, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			out = append(out, token{kind: tokRParen, text: ")"})
			i++
		case r == '%':
			out = append(out, token{kind: tokIdent, text: "%"})
			i++
		case unicode.IsDigit(r) || r == '.' || r == '-' || r == '+':
			loc := magnitudePattern.FindStringIndex(string(runes[i:]))
			if loc == nil {
				return nil, fmt.Errorf("unexpected %q", string(r))
			}
			lit := string(runes[i:])[:loc[1]]
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, err
			}
			out = append(out, token{kind: tokNumber, text: lit, num: v})
			i += len([]rune(lit))
		case unicode.IsLetter(r) || r == '_':
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			out = append(out, token{kind: tokIdent, text: string(runes[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected %q", string(r))
		}
	}
	return append(out, token{kind: tokEOF}), nil
}

// parser is a recursive-descent parser over unit expressions:
//
//	expr   = term { ("*" | "/" | <juxtaposition>) term }
//	term   = factor [ ("**" | "^") integer ]
//	factor = number | identifier | "(" expr ")"
//
// Operators are left-associative, so "t CO2/t Steel" means ((t·CO2)/t)·Steel.
type parser struct {
	reg  *Registry
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr() (*unit.Unit, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokMul:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left.Mul(right)
		case tokDiv:
			p.next()
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left.Div(right)
		case tokNumber, tokIdent, tokLParen:
			right, err := p.term()
			if err != nil {
				return nil, err
			}
			left.Mul(right)
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (*unit.Unit, error) {
	base, err := p.factor()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()
	exp := p.next()
	if exp.kind != tokNumber || exp.num != math.Trunc(exp.num) {
		return nil, fmt.Errorf("exponent must be an integer, got %q", exp.text)
	}
	return power(base, int(exp.num)), nil
}

func (p *parser) factor() (*unit.Unit, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return unit.New(t.num, nil), nil
	case tokIdent:
		u, ok := p.reg.lookup(t.text)
		if !ok {
			return nil, &UnitParseError{Text: t.text, Err: ErrUnknownUnit}
		}
		return u, nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q", t.text)
	}
}

// power raises u to an integer exponent without mutating u.
func power(u *unit.Unit, n int) *unit.Unit {
	out := unit.New(1, nil)
	for i := 0; i < n; i++ {
		out.Mul(u)
	}
	for i := 0; i > n; i-- {
		out.Div(u)
	}
	return out
}

// parseExpression turns unit text into an SI-scaled gonum unit.
func (r *Registry) parseExpression(text string) (*unit.Unit, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, &UnitParseError{Text: text, Reason: err.Error(), Err: ErrInvalidSyntax}
	}
	p := &parser{reg: r, toks: toks}
	u, err := p.expr()
	if err != nil {
		var upe *UnitParseError
		if errors.As(err, &upe) {
			return nil, &UnitParseError{Text: text, Reason: fmt.Sprintf("token %q", upe.Text), Err: upe.Err}
		}
		return nil, &UnitParseError{Text: text, Reason: err.Error(), Err: ErrInvalidSyntax}
	}
	if rest := p.peek(); rest.kind != tokEOF {
		return nil, &UnitParseError{Text: text, Reason: fmt.Sprintf("unexpected %q", rest.text), Err: ErrInvalidSyntax}
	}
	return u, nil
}
