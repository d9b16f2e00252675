package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrMissingValues   = errors.New("record has too few components")
	ErrIndexRange      = errors.New("face index out of range")
	ErrShortTriple     = errors.New("triple needs 3 components")
)

// Unspecified marks an empty or unparsable slot in a face descriptor.
// It is never a valid 1-based or negative index.
const Unspecified = int(^uint32(0) >> 1)

// Record tags.
const (
	tagVertex   = "v"
	tagTexCoord = "vt"
	tagNormal   = "vn"
	tagFace     = "f"
)

// Descriptor is one corner of a face record: 1-based (or negative) indices
// into the position, texcoord and normal lists, or Unspecified.
type Descriptor struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJ holds the parsed records of a geometry file.
type OBJ struct {
	Positions [][4]float32
	TexCoords [][3]float32
	Normals   [][3]float32
	Faces     [][]Descriptor
}

// LoadOBJ reads and parses a geometry file and expands it to triangles.
func LoadOBJ(path string) ([]Vertex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh: %w", err)
	}
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	vertices, err := obj.Vertices()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vertices, nil
}

// ParseOBJ parses geometry records from data. Unknown tags are skipped.
// Numeric errors in v/vt/vn records are fatal; bad face indices are not.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case tagVertex:
			c, err := parseFloats(fields[1:], 3, 4)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			v := [4]float32{0, 0, 0, 1}
			copy(v[:], c)
			obj.Positions = append(obj.Positions, v)

		case tagTexCoord:
			c, err := parseFloats(fields[1:], 1, 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", line, err)
			}
			var t [3]float32
			copy(t[:], c)
			obj.TexCoords = append(obj.TexCoords, t)

		case tagNormal:
			c, err := parseFloats(fields[1:], 3, 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", line, err)
			}
			obj.Normals = append(obj.Normals, [3]float32{c[0], c[1], c[2]})

		case tagFace:
			face := make([]Descriptor, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				face = append(face, ParseDescriptor(tok))
			}
			obj.Faces = append(obj.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	return obj, nil
}

// parseFloats parses between minN and maxN floats; extra tokens are ignored.
func parseFloats(tokens []string, minN, maxN int) ([]float32, error) {
	if len(tokens) < minN {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrMissingValues, minN, len(tokens))
	}
	n := min(len(tokens), maxN)
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, tokens[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// ParseDescriptor parses "p", "p/t", "p//n" or "p/t/n".
// Empty and non-integer slots become Unspecified; slots past the third are
// ignored.
func ParseDescriptor(tok string) Descriptor {
	d := Descriptor{Position: Unspecified, TexCoord: Unspecified, Normal: Unspecified}
	slots := []*int{&d.Position, &d.TexCoord, &d.Normal}
	for i, p := range strings.Split(tok, "/") {
		if i >= len(slots) {
			break
		}
		if p == "" {
			continue
		}
		if idx, err := strconv.Atoi(p); err == nil {
			*slots[i] = idx
		}
	}
	return d
}

// Triangulate returns the corner indices of the triangles cut from an
// n-sided face. Windows of three consecutive corners start at 0, 2, 4, ...
// and wrap modulo n; the last window is the one whose final corner reaches
// back to corner 0 or lands on corner n-1.
//
//	n=3: (0 1 2)
//	n=4: (0 1 2) (2 3 0)
//	n=6: (0 1 2) (2 3 4) (4 5 0)
func Triangulate(n int) [][3]int {
	if n < 3 {
		return nil
	}
	var tris [][3]int
	for i := 0; i+2 <= n; i += 2 {
		tris = append(tris, [3]int{i % n, (i + 1) % n, (i + 2) % n})
	}
	return tris
}

// Vertices expands every face into a flat triangle list in face order.
// Faces with fewer than three corners are skipped.
func (o *OBJ) Vertices() ([]Vertex, error) {
	var out []Vertex
	for fi, face := range o.Faces {
		for _, tri := range Triangulate(len(face)) {
			for _, corner := range tri {
				v, err := o.resolve(face[corner])
				if err != nil {
					return nil, fmt.Errorf("face %d: %w", fi+1, err)
				}
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (o *OBJ) resolve(d Descriptor) (Vertex, error) {
	var v Vertex

	if i, err := lookup(d.Position, len(o.Positions), "position"); err != nil {
		return v, err
	} else if i >= 0 {
		p := o.Positions[i]
		v.Position = [3]float32{p[0], p[1], p[2]}
	}

	if i, err := lookup(d.TexCoord, len(o.TexCoords), "texcoord"); err != nil {
		return v, err
	} else if i >= 0 {
		t := o.TexCoords[i]
		v.TexCoord = [2]float32{t[0], t[1]}
	}

	if i, err := lookup(d.Normal, len(o.Normals), "normal"); err != nil {
		return v, err
	} else if i >= 0 {
		v.Normal = o.Normals[i]
	}

	return v, nil
}

// lookup converts a descriptor index to a 0-based list offset.
// It returns -1 for Unspecified.
func lookup(idx, n int, list string) (int, error) {
	if idx == Unspecified {
		return -1, nil
	}
	i := idx - 1
	if idx < 0 {
		i = n + idx
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %s %d of %d", ErrIndexRange, list, idx, n)
	}
	return i, nil
}
