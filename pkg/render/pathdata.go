package render

import (
	"fmt"
	"strconv"

	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

// flattenSteps is the number of line segments used per Bézier segment.
const flattenSteps = 32

// FlattenPath converts SVG path data into polylines, one per subpath. It
// understands the M, L, H, V, Q, C and Z commands in absolute and relative
// form, which covers the paths definitions use for edge overrides.
func FlattenPath(d string) ([][]geom.Point, error) {
	toks, err := tokenizePath(d)
	if err != nil {
		return nil, err
	}

	var (
		lines [][]geom.Point
		cur   []geom.Point
		pos   geom.Point
		start geom.Point
		cmd   byte
		i     int
	)

	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}

	nums := func(n int) ([]float64, error) {
		if i+n > len(toks) {
			return nil, fmt.Errorf("path %q: command %c needs %d numbers", d, cmd, n)
		}
		out := make([]float64, n)
		for k := 0; k < n; k++ {
			if toks[i+k].cmd != 0 {
				return nil, fmt.Errorf("path %q: command %c needs %d numbers", d, cmd, n)
			}
			out[k] = toks[i+k].num
		}
		i += n
		return out, nil
	}

	for i < len(toks) {
		if toks[i].cmd != 0 {
			cmd = toks[i].cmd
			i++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path %q: must start with a command", d)
		}

		rel := cmd >= 'a'
		base := geom.Point{}
		if rel {
			base = pos
		}

		switch cmd {
		case 'M', 'm':
			v, err := nums(2)
			if err != nil {
				return nil, err
			}
			flush()
			pos = base.Add(geom.Pt(v[0], v[1]))
			start = pos
			cur = []geom.Point{pos}
			// Further pairs after a moveto are implicit linetos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			v, err := nums(2)
			if err != nil {
				return nil, err
			}
			pos = base.Add(geom.Pt(v[0], v[1]))
			cur = append(cur, pos)
		case 'H', 'h':
			v, err := nums(1)
			if err != nil {
				return nil, err
			}
			pos = geom.Pt(base.X+v[0], pos.Y)
			cur = append(cur, pos)
		case 'V', 'v':
			v, err := nums(1)
			if err != nil {
				return nil, err
			}
			pos = geom.Pt(pos.X, base.Y+v[0])
			cur = append(cur, pos)
		case 'Q', 'q':
			v, err := nums(4)
			if err != nil {
				return nil, err
			}
			c := base.Add(geom.Pt(v[0], v[1]))
			end := base.Add(geom.Pt(v[2], v[3]))
			for k := 1; k <= flattenSteps; k++ {
				cur = append(cur, geom.QuadAt(pos, c, end, float64(k)/flattenSteps))
			}
			pos = end
		case 'C', 'c':
			v, err := nums(6)
			if err != nil {
				return nil, err
			}
			c1 := base.Add(geom.Pt(v[0], v[1]))
			c2 := base.Add(geom.Pt(v[2], v[3]))
			end := base.Add(geom.Pt(v[4], v[5]))
			for k := 1; k <= flattenSteps; k++ {
				cur = append(cur, geom.CubicAt(pos, c1, c2, end, float64(k)/flattenSteps))
			}
			pos = end
		case 'Z', 'z':
			cur = append(cur, start)
			pos = start
			flush()
			cur = []geom.Point{pos}
			cmd = 0
		default:
			return nil, fmt.Errorf("path %q: unsupported command %c", d, cmd)
		}

		if cur == nil {
			cur = []geom.Point{pos}
		}
	}
	flush()

	if len(lines) == 0 {
		return nil, fmt.Errorf("path %q: no segments", d)
	}
	return lines, nil
}

type pathToken struct {
	cmd byte // 0 for a number
	num float64
}

func tokenizePath(d string) ([]pathToken, error) {
	var toks []pathToken
	for i := 0; i < len(d); {
		c := d[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isPathCommand(c):
			toks = append(toks, pathToken{cmd: c})
			i++
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			j := scanNumber(d, i)
			v, err := strconv.ParseFloat(d[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("path %q: bad number %q", d, d[i:j])
			}
			toks = append(toks, pathToken{num: v})
			i = j
		default:
			return nil, fmt.Errorf("path %q: unexpected %q", d, c)
		}
	}
	return toks, nil
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'Q', 'q', 'C', 'c', 'Z', 'z',
		'A', 'a', 'S', 's', 'T', 't':
		return true
	}
	return false
}

// scanNumber returns the end of the number starting at i. "1.5.5" is two
// numbers and "3-2" is two numbers, as in SVG.
func scanNumber(d string, i int) int {
	j := i
	if d[j] == '-' || d[j] == '+' {
		j++
	}
	dot := false
	for j < len(d) {
		c := d[j]
		if c >= '0' && c <= '9' {
			j++
			continue
		}
		if c == '.' && !dot {
			dot = true
			j++
			continue
		}
		break
	}
	if j < len(d) && (d[j] == 'e' || d[j] == 'E') {
		k := j + 1
		if k < len(d) && (d[k] == '-' || d[k] == '+') {
			k++
		}
		if k < len(d) && d[k] >= '0' && d[k] <= '9' {
			for k < len(d) && d[k] >= '0' && d[k] <= '9' {
				k++
			}
			j = k
		}
	}
	return j
}
