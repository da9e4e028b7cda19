// OBJ (indexed-face text) format parser.
package formats

import (
	"bufio"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/halfmesh/pkg/encoding"
	"github.com/Faultbox/halfmesh/pkg/math"
)

// NoIndex marks an absent texture or normal reference.
const NoIndex = -1

// maxLineSize bounds a single (joined) record.
const maxLineSize = 16 * 1024 * 1024

// OBJCorner is one corner of a face. Indices are 0-based.
type OBJCorner struct {
	Vertex   int // Index into Positions
	TexCoord int // Index into TexCoords or NoIndex
	Normal   int // Index into Normals or NoIndex
}

// OBJTriangle is a triangular face.
type OBJTriangle [3]OBJCorner

// VertexIDs returns the position indices of the three corners.
func (t OBJTriangle) VertexIDs() [3]int {
	return [3]int{t[0].Vertex, t[1].Vertex, t[2].Vertex}
}

// OBJ holds the buffers and raw triangle list of an indexed-face file.
type OBJ struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Triangles []OBJTriangle

	Polygons int // Face records read, before fan triangulation
}

// OBJOptions controls how the source is decoded and how positions are
// transformed while reading.
type OBJOptions struct {
	Scale    float64   // Uniform scale, 0 means 1
	Offset   math.Vec3 // Added before scaling
	Encoding string    // Source charset, empty for UTF-8
}

func (o OBJOptions) transform(p math.Vec3) math.Vec3 {
	p = p.Add(o.Offset)
	if o.Scale != 0 && o.Scale != 1 {
		p = p.Scale(o.Scale)
	}
	return p
}

// ParseOBJ parses an indexed-face text stream. Faces with more than three
// corners are fan-triangulated. All errors are *ParseError.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	src, err := encoding.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	obj := &OBJ{}
	p := objParser{obj: obj, opts: opts}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var pending strings.Builder
	lineNo, startLine := 0, 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())

		// Trailing backslash joins the next physical line.
		if strings.HasSuffix(line, "\\") {
			if pending.Len() == 0 {
				startLine = lineNo
			}
			pending.WriteString(strings.TrimSuffix(line, "\\"))
			pending.WriteByte(' ')
			continue
		}
		at := lineNo
		if pending.Len() > 0 {
			pending.WriteString(line)
			line = pending.String()
			pending.Reset()
			at = startLine
		}

		if err := p.parseLine(line); err != nil {
			err.Line = at
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo, Err: err}
	}
	if pending.Len() > 0 {
		if err := p.parseLine(pending.String()); err != nil {
			err.Line = startLine
			return nil, err
		}
	}
	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk. Errors carry the path.
func ParseOBJFile(path string, opts OBJOptions) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	obj, err := ParseOBJ(f, opts)
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			perr.Path = path
		}
		return nil, err
	}
	return obj, nil
}

type objParser struct {
	obj  *OBJ
	opts OBJOptions
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func (p *objParser) parseLine(line string) *ParseError {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	var err error
	switch fields[0] {
	case "v":
		err = p.parseVertex(fields[1:])
	case "vn":
		err = p.parseNormal(fields[1:])
	case "vt":
		err = p.parseTexCoord(fields[1:])
	case "f":
		err = p.parseFace(fields[1:])
	default:
		// o, g, s, usemtl, mtllib, l, p and friends carry nothing we keep.
		return nil
	}
	if err != nil {
		return &ParseError{Record: fields[0], Err: err}
	}
	return nil
}

func (p *objParser) parseVertex(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrMalformedRecord, len(args))
	}
	v, err := parseVec3(args)
	if err != nil {
		return err
	}
	p.obj.Positions = append(p.obj.Positions, p.opts.transform(v))
	return nil
}

func (p *objParser) parseNormal(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: normal needs 3 components, got %d", ErrMalformedRecord, len(args))
	}
	n, err := parseVec3(args)
	if err != nil {
		return err
	}
	p.obj.Normals = append(p.obj.Normals, n)
	return nil
}

func (p *objParser) parseTexCoord(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: texture coordinate needs at least 1 component", ErrMalformedRecord)
	}
	var uv math.Vec2
	u, err := parseFloat(args[0])
	if err != nil {
		return err
	}
	uv.X = u
	if len(args) > 1 {
		if uv.Y, err = parseFloat(args[1]); err != nil {
			return err
		}
	}
	p.obj.TexCoords = append(p.obj.TexCoords, uv)
	return nil
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w (got %d)", ErrTooFewVertices, len(args))
	}
	corners := make([]OBJCorner, len(args))
	for i, arg := range args {
		c, err := p.parseCorner(arg)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	p.obj.Polygons++
	for i := 1; i < len(corners)-1; i++ {
		p.obj.Triangles = append(p.obj.Triangles, OBJTriangle{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// parseCorner parses v, v/t, v//n or v/t/n.
func (p *objParser) parseCorner(s string) (OBJCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return OBJCorner{}, fmt.Errorf("%w: face corner %q", ErrMalformedRecord, s)
	}

	c := OBJCorner{TexCoord: NoIndex, Normal: NoIndex}
	var err error
	if c.Vertex, err = resolveIndex(parts[0], len(p.obj.Positions)); err != nil {
		return OBJCorner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.TexCoord, err = resolveIndex(parts[1], len(p.obj.TexCoords)); err != nil {
			return OBJCorner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveIndex(parts[2], len(p.obj.Normals)); err != nil {
			return OBJCorner{}, err
		}
	}
	return c, nil
}

// resolveIndex converts a 1-based or negative-from-end index into a
// 0-based index into a buffer of the given length.
func resolveIndex(s string, length int) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty index", ErrMalformedRecord)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	idx := n - 1
	if n < 0 {
		idx = length + n
	}
	if n == 0 || idx < 0 || idx >= length {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, n, length)
	}
	return idx, nil
}

func parseVec3(args []string) (math.Vec3, error) {
	var v math.Vec3
	var err error
	if v.X, err = parseFloat(args[0]); err != nil {
		return v, err
	}
	if v.Y, err = parseFloat(args[1]); err != nil {
		return v, err
	}
	if v.Z, err = parseFloat(args[2]); err != nil {
		return v, err
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || gomath.IsNaN(f) || gomath.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return f, nil
}
