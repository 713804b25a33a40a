package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// objScale converts OBJ coordinates, which are taken to be meters, to millimeters
const objScale = 1000

func openOBJ(path string) (*Stream, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return newStream(OBJ, newOBJ(path, file), file), nil
}

// objDecoder yields every geometric vertex record ("v x y z").
// Faces, normals and texture coordinates are ignored.
type objDecoder struct {
	path    string
	scanner *bufio.Scanner
	line    int
}

func newOBJ(path string, r io.Reader) *objDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &objDecoder{path: path, scanner: scanner}
}

func (d *objDecoder) next() (Vertex, error) {
	for d.scanner.Scan() {
		d.line++
		line := d.scanner.Text()
		if !strings.HasPrefix(line, "v ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		var coords [3]float32
		for i := range coords {
			f, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return Vertex{}, &ParseError{Path: d.path, Line: d.line, Err: err}
			}
			coords[i] = float32(f) * objScale
		}
		return Vertex{X: coords[0], Y: coords[1], Z: coords[2]}, nil
	}

	if err := d.scanner.Err(); err != nil {
		return Vertex{}, fmt.Errorf("error reading OBJ: %w", err)
	}
	return Vertex{}, io.EOF
}
