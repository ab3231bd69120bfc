package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0   # trailing comment
v 0 1 0

vt 0 0
vn 0 0 1
f 1 2 3
f 1/1/1 3/1/1 4/1/1
`

func TestParseOBJ_Quad(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Len(t, data.Positions, 4)
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, data.Indices)
	assert.Equal(t, 2, data.FaceCount())
	require.Len(t, data.Normals, 2)
	for _, n := range data.Normals {
		assert.True(t, n.ApproxEqual(core.UnitZ, 1e-12), "normal %v", n)
	}
	assert.Equal(t, core.NewVec3(1, 1, 0), data.Positions[2])
}

func TestParseOBJ_PolygonFan(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"

	data, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, data.Indices)
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"

	data, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, data.Indices)
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		invalidIdx bool
	}{
		{"index past the end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", true},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", true},
		{"negative index too far back", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 1 2\n", true},
		{"face before its vertices", "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n", true},
		{"too few face corners", "v 0 0 0\nv 1 0 0\nf 1 2\n", false},
		{"bad coordinate", "v 0 zero 0\n", false},
		{"missing coordinate", "v 0 0\n", false},
		{"bad face token", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 two 3\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			require.Error(t, err)
			if tt.invalidIdx {
				assert.ErrorIs(t, err, ErrInvalidIndex)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidIndex)
			}
		})
	}
}

func TestParseOBJ_Empty(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader("# nothing here\n\n"))
	require.NoError(t, err)
	assert.Empty(t, data.Positions)
	assert.Empty(t, data.Indices)
	assert.Empty(t, data.Normals)
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0644))

	data, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, 2, data.FaceCount())

	_, err = LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
