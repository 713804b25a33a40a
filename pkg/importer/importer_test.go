package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitCubeOBJ lists the 36 vertices of a one meter cube, three per triangle
func unitCubeOBJ() string {
	c := [8][3]int{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	faces := [12][3]int{
		{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4}, {2, 3, 7}, {2, 7, 6},
		{1, 2, 6}, {1, 6, 5}, {3, 0, 4}, {3, 4, 7},
	}

	var sb strings.Builder
	sb.WriteString("# unit cube in meters\n")
	for _, f := range faces {
		for _, i := range f {
			fmt.Fprintf(&sb, "v %d %d %d\n", c[i][0], c[i][1], c[i][2])
		}
	}
	return sb.String()
}

func TestImportOBJCubeInMeters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cube.obj")
	require.NoError(t, os.WriteFile(p, []byte(unitCubeOBJ()), 0644))

	model, err := ImportModel(p)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, model.Dimensions.Width, 1e-6)
	assert.InDelta(t, 1000.0, model.Dimensions.Height, 1e-6)
	assert.InDelta(t, 1000.0, model.Dimensions.Depth, 1e-6)
	assert.InDelta(t, 1e9, model.VolumeMm3, 1e-3)
	assert.InDelta(t, 6e6, model.SurfaceAreaMm2, 1e-3)
}

func TestImportUnsupportedExtension(t *testing.T) {
	_, err := ImportModel("model.xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), ".xyz")

	var uerr *UnsupportedFormatError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, ".xyz", uerr.Ext)
}

func TestImportMissingFile(t *testing.T) {
	_, err := ImportModel(filepath.Join(t.TempDir(), "missing.stl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileImporter(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tri.stl")
	src := "solid t\nvertex 0 0 0\nvertex 2 0 0\nvertex 0 2 0\nendsolid t\n"
	require.NoError(t, os.WriteFile(p, []byte(src), 0644))

	var imp Importer = FileImporter{}
	model, err := imp.Import(p)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, model.SurfaceAreaMm2, 1e-9)
	assert.Zero(t, model.VolumeMm3)
}
