package formats

import (
	"bufio"
	"io"
	"strconv"

	"github.com/Faultbox/halfmesh/pkg/math"
)

// WriteOBJ writes obj as indexed-face text using 1-based indices.
// Triangles are written as-is; no triangulation is performed.
func WriteOBJ(w io.Writer, obj *OBJ) error {
	bw := bufio.NewWriter(w)

	for _, p := range obj.Positions {
		writeVec3(bw, "v", p)
	}
	for _, n := range obj.Normals {
		writeVec3(bw, "vn", n)
	}
	for _, t := range obj.TexCoords {
		bw.WriteString("vt ")
		bw.WriteString(formatFloat(t.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(t.Y))
		bw.WriteByte('\n')
	}
	for _, tri := range obj.Triangles {
		bw.WriteString("f")
		for _, c := range tri {
			bw.WriteByte(' ')
			writeCorner(bw, c)
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func writeVec3(bw *bufio.Writer, kind string, v math.Vec3) {
	bw.WriteString(kind)
	bw.WriteByte(' ')
	bw.WriteString(formatFloat(v.X))
	bw.WriteByte(' ')
	bw.WriteString(formatFloat(v.Y))
	bw.WriteByte(' ')
	bw.WriteString(formatFloat(v.Z))
	bw.WriteByte('\n')
}

func writeCorner(bw *bufio.Writer, c OBJCorner) {
	bw.WriteString(strconv.Itoa(c.Vertex + 1))
	switch {
	case c.TexCoord != NoIndex && c.Normal != NoIndex:
		bw.WriteByte('/')
		bw.WriteString(strconv.Itoa(c.TexCoord + 1))
		bw.WriteByte('/')
		bw.WriteString(strconv.Itoa(c.Normal + 1))
	case c.TexCoord != NoIndex:
		bw.WriteByte('/')
		bw.WriteString(strconv.Itoa(c.TexCoord + 1))
	case c.Normal != NoIndex:
		bw.WriteString("//")
		bw.WriteString(strconv.Itoa(c.Normal + 1))
	}
}

// formatFloat uses the shortest representation that parses back exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
