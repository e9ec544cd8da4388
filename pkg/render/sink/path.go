package sink

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/calloutgen/pkg/core/geom"
	"github.com/matzehuels/calloutgen/pkg/errors"
)

// segment is one absolute path command.
type segment struct {
	op  byte
	pts []geom.Point
}

// arity is the number of points each supported command takes.
var arity = map[byte]int{'M': 1, 'L': 1, 'C': 3, 'Z': 0}

// parsePath reads the absolute subset of SVG path data that vector nodes
// carry: M, L, C and Z, with implicit repetition of the last command.
func parsePath(d string) ([]segment, error) {
	tokens := strings.FieldsFunc(d, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	var (
		segs []segment
		op   byte
	)
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if len(tok) == 1 && unicode.IsLetter(rune(tok[0])) {
			op = tok[0]
			if _, ok := arity[op]; !ok {
				return nil, errors.New(errors.ErrCodeRenderFailed, "unsupported path command %q", tok)
			}
			i++
			if op == 'Z' {
				segs = append(segs, segment{op: op})
				continue
			}
		} else if op == 0 {
			return nil, errors.New(errors.ErrCodeRenderFailed, "path data must start with a command: %q", d)
		}

		n := arity[op]
		if n == 0 {
			return nil, errors.New(errors.ErrCodeRenderFailed, "unexpected coordinates after Z in %q", d)
		}
		if i+2*n > len(tokens) {
			return nil, errors.New(errors.ErrCodeRenderFailed, "truncated %c command in %q", op, d)
		}
		seg := segment{op: op, pts: make([]geom.Point, n)}
		for j := range n {
			x, errX := strconv.ParseFloat(tokens[i+2*j], 64)
			y, errY := strconv.ParseFloat(tokens[i+2*j+1], 64)
			if errX != nil || errY != nil {
				return nil, errors.New(errors.ErrCodeRenderFailed, "bad coordinate in %q", d)
			}
			seg.pts[j] = geom.Point{X: x, Y: y}
		}
		segs = append(segs, seg)
		i += 2 * n
		if op == 'M' {
			op = 'L'
		}
	}
	return segs, nil
}
