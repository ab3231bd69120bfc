package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// ErrInvalidIndex is returned when a face references a vertex that does not exist
var ErrInvalidIndex = errors.New("invalid vertex index")

// OBJData contains the triangle data loaded from a Wavefront OBJ file
type OBJData struct {
	Positions []core.Vec3 // Vertex positions from v lines
	Indices   []int       // Zero-based triangle indices (3 per triangle)
	Normals   []core.Vec3 // One unit normal per triangle, from the winding order
}

// FaceCount returns the number of triangles
func (d *OBJData) FaceCount() int {
	return len(d.Indices) / 3
}

// objParser holds the state accumulated while reading an OBJ stream
type objParser struct {
	data       *OBJData
	lineNumber int
}

// ParseOBJ parses OBJ content from an io.Reader.
// Only positions and faces are read; polygons are split into triangle fans.
func ParseOBJ(reader io.Reader) (*OBJData, error) {
	parser := &objParser{data: &OBJData{}}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parser.lineNumber++
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", parser.lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	parser.data.Normals = faceNormals(parser.data.Positions, parser.data.Indices)
	return parser.data, nil
}

// LoadOBJ loads and parses an OBJ file
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

func (p *objParser) processLine(line string) error {
	// Strip trailing comments
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		return p.processVertex(fields[1:])
	case "f":
		return p.processFace(fields[1:])
	default:
		// Texture coordinates, normals, groups and materials are not used
		return nil
	}
}

func (p *objParser) processVertex(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}

	var coords [3]float64
	for i := range coords {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("invalid vertex coordinate %q: %w", fields[i], err)
		}
		coords[i] = value
	}

	p.data.Positions = append(p.data.Positions, core.NewVec3(coords[0], coords[1], coords[2]))
	return nil
}

func (p *objParser) processFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}

	corners := make([]int, len(fields))
	for i, field := range fields {
		index, err := p.resolveIndex(field)
		if err != nil {
			return err
		}
		corners[i] = index
	}

	// Fan triangulation around the first corner
	for i := 1; i+1 < len(corners); i++ {
		p.data.Indices = append(p.data.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// resolveIndex converts a face token like "7", "7/2" or "7/2/5" into a zero-based position index.
// Negative indices count back from the most recent vertex.
func (p *objParser) resolveIndex(token string) (int, error) {
	position, _, _ := strings.Cut(token, "/")

	index, err := strconv.Atoi(position)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q: %w", token, err)
	}

	count := len(p.data.Positions)
	switch {
	case index > 0 && index <= count:
		return index - 1, nil
	case index < 0 && -index <= count:
		return count + index, nil
	default:
		return 0, fmt.Errorf("%w: %d with %d vertices defined", ErrInvalidIndex, index, count)
	}
}

func faceNormals(positions []core.Vec3, indices []int) []core.Vec3 {
	normals := make([]core.Vec3, len(indices)/3)
	for face := range normals {
		p0, p1, p2 := positions[indices[face*3]], positions[indices[face*3+1]], positions[indices[face*3+2]]
		normals[face] = p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	}
	return normals
}
