package engine

import (
	"fmt"
	"strings"
)

// keywords are the keyword arguments accepted by geomkit forms:
// (plane :point p :normal n) and (group "name" ... :description "text").
var keywords = map[string]bool{
	"point":       true,
	"normal":      true,
	"description": true,
}

// preprocessSource rewrites geomkit source into something zygomys reads:
//
//   - ; comments become // comments
//   - known keywords become marker strings, :normal -> "__kw_normal"
//   - hyphens inside symbols become underscores, plane-through -> plane_through
//
// String literals pass through untouched. An unknown keyword is reported
// with its position instead of reaching the interpreter.
func preprocessSource(source string) (string, []EvalError) {
	r := &rewriter{src: source}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch {
		case c == '"':
			r.copyString()
		case c == ';':
			r.copyComment()
		case c == ':' && r.pos+1 < len(r.src) && isLetter(r.src[r.pos+1]):
			r.keyword()
		case isDigit(c):
			r.copyNumber()
		case isLetter(c) || c == '_':
			r.symbol()
		default:
			r.out.WriteByte(c)
			r.pos++
		}
	}
	return r.out.String(), r.errs
}

type rewriter struct {
	src  string
	pos  int
	out  strings.Builder
	errs []EvalError
}

func (r *rewriter) copyString() {
	end := r.pos + 1
	for end < len(r.src) && r.src[end] != '"' {
		if r.src[end] == '\\' {
			end++
		}
		end++
	}
	end = min(end+1, len(r.src))
	r.out.WriteString(r.src[r.pos:end])
	r.pos = end
}

func (r *rewriter) copyComment() {
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.pos++
	}
	end := strings.IndexByte(r.src[r.pos:], '\n')
	if end < 0 {
		end = len(r.src) - r.pos
	}
	r.out.WriteString("//")
	r.out.WriteString(r.src[r.pos : r.pos+end])
	r.pos += end
}

func (r *rewriter) keyword() {
	start := r.pos
	end := start + 1
	for end < len(r.src) && (isLetter(r.src[end]) || isDigit(r.src[end]) || r.src[end] == '-' || r.src[end] == '_') {
		end++
	}
	name := r.src[start+1 : end]
	if !keywords[name] {
		line, col := r.position(start)
		r.errs = append(r.errs, EvalError{
			Line:    line,
			Col:     col,
			Message: fmt.Sprintf("unknown keyword :%s", name),
		})
	}
	r.out.WriteString(`"` + kwPrefix + name + `"`)
	r.pos = end
}

// copyNumber passes numeric literals through, including exponents like 1e-6.
func (r *rewriter) copyNumber() {
	end := r.pos
	for end < len(r.src) {
		c := r.src[end]
		if isDigit(c) || isLetter(c) || c == '.' || c == '_' {
			end++
			continue
		}
		if (c == '-' || c == '+') && (r.src[end-1] == 'e' || r.src[end-1] == 'E') {
			end++
			continue
		}
		break
	}
	r.out.WriteString(r.src[r.pos:end])
	r.pos = end
}

// symbol copies one identifier, turning each hyphen that joins two parts of
// the name into an underscore. A hyphen not followed by a letter ends the
// symbol, so (- x 1) and x-1 keep their minus.
func (r *rewriter) symbol() {
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch {
		case isLetter(c) || isDigit(c) || c == '_':
			r.out.WriteByte(c)
		case c == '-' && r.pos+1 < len(r.src) && isLetter(r.src[r.pos+1]):
			r.out.WriteByte('_')
		default:
			return
		}
		r.pos++
	}
}

// position returns the 1-based line and column of byte offset off.
func (r *rewriter) position(off int) (int, int) {
	before := r.src[:off]
	line := strings.Count(before, "\n") + 1
	return line, off - strings.LastIndexByte(before, '\n')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
