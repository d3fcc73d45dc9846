package selector

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/npillmayer/stylemap/errors"
)

// Parse parses a selector string. It returns an error of kind
// errors.KindSelector if text is empty or malformed.
//
// Grammar for a segment:
//
//     segment := [ ident | '*' ] { '#' ident | '.' ident | '[' ident '=' value ']' | ':' ident }
//
// Segments are separated by whitespace (descendant) or by one of the
// combinators '>', '+' and '~'.
func Parse(text string) (*Selector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Selector(text, "empty selector")
	}
	sc := &scanner{text: text, runes: []rune(text)}
	var parts []Part
	for {
		sc.skipSpace()
		if sc.eof() {
			break
		}
		if _, ok := combinatorFor(sc.peek()); ok {
			if len(parts) == 0 {
				return nil, sc.errorf("selector starts with combinator %q", sc.peek())
			}
			return nil, sc.errorf("doubled combinator %q", sc.peek())
		}
		part, err := sc.segment()
		if err != nil {
			return nil, err
		}
		hadSpace := sc.skipSpace()
		if !sc.eof() {
			if c, ok := combinatorFor(sc.peek()); ok {
				sc.pos++
				sc.skipSpace()
				if sc.eof() {
					return nil, sc.errorf("selector ends with combinator %q", c.String())
				}
				part.combinator = c
			} else if hadSpace {
				part.combinator = Descendant
			} else {
				return nil, sc.errorf("unexpected character %q", sc.peek())
			}
		}
		parts = append(parts, part)
	}
	sel := &Selector{raw: text, parts: parts}
	for _, p := range parts {
		sel.spec = sel.spec.add(p.specificity())
	}
	tracer().Debugf("parsed selector %q: %d part(s), specificity %s", text, len(parts), sel.spec)
	return sel, nil
}

// MustParse is like Parse, but panics on errors. It simplifies initialization of
// selector literals.
func MustParse(text string) *Selector {
	sel, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return sel
}

func combinatorFor(r rune) (Combinator, bool) {
	switch r {
	case '>':
		return Child, true
	case '+':
		return Adjacent, true
	case '~':
		return Sibling, true
	}
	return NoCombinator, false
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// --- Scanner ---------------------------------------------------------------

type scanner struct {
	text  string
	runes []rune
	pos   int
}

func (sc *scanner) eof() bool {
	return sc.pos >= len(sc.runes)
}

func (sc *scanner) peek() rune {
	if sc.eof() {
		return 0
	}
	return sc.runes[sc.pos]
}

func (sc *scanner) errorf(format string, args ...interface{}) *errors.MappingError {
	err := errors.Selector(sc.text, format, args...)
	err.Message += " at position " + strconv.Itoa(sc.pos)
	return err
}

// skipSpace returns true if any whitespace has been skipped.
func (sc *scanner) skipSpace() bool {
	start := sc.pos
	for !sc.eof() && unicode.IsSpace(sc.peek()) {
		sc.pos++
	}
	return sc.pos > start
}

func (sc *scanner) ident() string {
	start := sc.pos
	for !sc.eof() && isIdentRune(sc.peek()) {
		sc.pos++
	}
	return string(sc.runes[start:sc.pos])
}

func (sc *scanner) atSegmentEnd() bool {
	if sc.eof() || unicode.IsSpace(sc.peek()) {
		return true
	}
	_, ok := combinatorFor(sc.peek())
	return ok
}

// segment reads one compound segment up to whitespace, a combinator or the end
// of input.
func (sc *scanner) segment() (Part, error) {
	var p Part
	if sc.peek() == '*' {
		p.typeName = "*"
		sc.pos++
	} else if isIdentRune(sc.peek()) {
		p.typeName = sc.ident()
	}
	for !sc.atSegmentEnd() {
		switch c := sc.peek(); c {
		case '#':
			sc.pos++
			name := sc.ident()
			if name == "" {
				return p, sc.errorf("empty id after '#'")
			}
			if p.id != "" {
				return p, sc.errorf("more than one id in segment")
			}
			p.id = name
		case '.':
			sc.pos++
			name := sc.ident()
			if name == "" {
				return p, sc.errorf("empty class name after '.'")
			}
			if p.class == "" {
				p.class = name
			} else {
				p.ignored = append(p.ignored, name)
			}
		case '[':
			if err := sc.attribute(&p); err != nil {
				return p, err
			}
		case ':':
			sc.pos++
			if sc.peek() == ':' {
				return p, sc.errorf("pseudo-elements are not supported")
			}
			name := sc.ident()
			if name == "" {
				return p, sc.errorf("empty pseudo-class after ':'")
			}
			p.addPseudo(name)
		default:
			return p, sc.errorf("unexpected character %q", c)
		}
	}
	p.classify()
	return p, nil
}

// attribute reads "[name=value]", where value may be quoted.
func (sc *scanner) attribute(p *Part) error {
	sc.pos++ // '['
	sc.skipSpace()
	name := sc.ident()
	if name == "" {
		return sc.errorf("empty attribute name")
	}
	sc.skipSpace()
	switch sc.peek() {
	case ']':
		return sc.errorf("attribute %q needs a value", name)
	case '=':
		sc.pos++
	case 0:
		return sc.errorf("unterminated attribute selector")
	default:
		return sc.errorf("unsupported attribute operator %q", sc.peek())
	}
	sc.skipSpace()
	var value string
	if q := sc.peek(); q == '"' || q == '\'' {
		sc.pos++
		start := sc.pos
		for !sc.eof() && sc.peek() != q {
			sc.pos++
		}
		if sc.eof() {
			return sc.errorf("unterminated quoted value")
		}
		value = string(sc.runes[start:sc.pos])
		sc.pos++
	} else {
		start := sc.pos
		for !sc.eof() && sc.peek() != ']' && !unicode.IsSpace(sc.peek()) {
			sc.pos++
		}
		value = string(sc.runes[start:sc.pos])
		if value == "" {
			return sc.errorf("empty value for attribute %q", name)
		}
	}
	sc.skipSpace()
	if sc.peek() != ']' {
		return sc.errorf("unterminated attribute selector")
	}
	sc.pos++
	if p.attrs == nil {
		p.attrs = make(map[string]string)
	}
	p.attrs[name] = value
	return nil
}

func (p *Part) addPseudo(name string) {
	i := sort.SearchStrings(p.pseudo, name)
	if i < len(p.pseudo) && p.pseudo[i] == name {
		return
	}
	p.pseudo = append(p.pseudo, "")
	copy(p.pseudo[i+1:], p.pseudo[i:])
	p.pseudo[i] = name
}

// classify sets the primary kind and value of a part.
func (p *Part) classify() {
	switch {
	case p.id != "":
		p.kind, p.value = ID, p.id
	case p.class != "":
		p.kind, p.value = Class, p.class
	case len(p.attrs) > 0:
		p.kind, p.value = Attribute, ""
	case len(p.pseudo) > 0:
		p.kind, p.value = Pseudo, ""
	case p.typeName != "" && p.typeName != "*":
		p.kind, p.value = Type, p.typeName
	default:
		p.kind, p.value = Universal, "*"
	}
}
