package reader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal, three vertices, attribute byte count
)

// DetectSTL peeks at the first five bytes and classifies the file as ASCII
// when they spell "solid" in any case. Binary files whose header happens to
// start with "solid" are misclassified.
func DetectSTL(r *bufio.Reader) Format {
	head, _ := r.Peek(5)
	if len(head) == 5 && strings.EqualFold(string(head), "solid") {
		return STLASCII
	}
	return STLBinary
}

func openSTL(path string) (*Stream, error) {
	return openSTLAs(path, Unknown)
}

func openSTLAs(path string, format Format) (*Stream, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	br := bufio.NewReader(file)
	if format == Unknown {
		format = DetectSTL(br)
	}

	if format == STLASCII {
		return newStream(STLASCII, newASCIISTL(br), file), nil
	}

	dec, err := newBinarySTL(br)
	if err != nil {
		file.Close()
		return nil, err
	}
	return newStream(STLBinary, dec, file), nil
}

// asciiSTL yields the coordinates of every "vertex x y z" line.
// Lines that do not parse are skipped.
type asciiSTL struct {
	scanner *bufio.Scanner
}

func newASCIISTL(r io.Reader) *asciiSTL {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &asciiSTL{scanner: scanner}
}

func (d *asciiSTL) next() (Vertex, error) {
	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if len(line) < 6 || !strings.EqualFold(line[:6], "vertex") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}

		v, ok := parseVertex(fields[1], fields[2], fields[3])
		if !ok {
			continue
		}
		return v, nil
	}

	if err := d.scanner.Err(); err != nil {
		return Vertex{}, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return Vertex{}, io.EOF
}

func parseVertex(xs, ys, zs string) (Vertex, bool) {
	x, err := strconv.ParseFloat(xs, 32)
	if err != nil {
		return Vertex{}, false
	}
	y, err := strconv.ParseFloat(ys, 32)
	if err != nil {
		return Vertex{}, false
	}
	z, err := strconv.ParseFloat(zs, 32)
	if err != nil {
		return Vertex{}, false
	}
	return Vertex{X: float32(x), Y: float32(y), Z: float32(z)}, true
}

// binarySTL decodes fixed size triangle records and hands out their
// vertices one at a time.
type binarySTL struct {
	r       io.Reader
	count   uint32
	read    uint32
	buf     [stlTriangleSize]byte
	pending [3]Vertex
	pos     int
}

func newBinarySTL(r io.Reader) (*binarySTL, error) {
	header := make([]byte, stlHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", truncated(err))
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", truncated(err))
	}

	return &binarySTL{r: r, count: count, pos: 3}, nil
}

func (d *binarySTL) next() (Vertex, error) {
	if d.pos == 3 {
		if d.read == d.count {
			return Vertex{}, io.EOF
		}
		if _, err := io.ReadFull(d.r, d.buf[:]); err != nil {
			return Vertex{}, fmt.Errorf("failed to read triangle %d of %d: %w", d.read+1, d.count, truncated(err))
		}
		// Bytes 0-11 hold the facet normal, 48-49 the attribute byte count.
		for i := range d.pending {
			off := 12 + i*12
			d.pending[i] = Vertex{
				X: float32le(d.buf[off:]),
				Y: float32le(d.buf[off+4:]),
				Z: float32le(d.buf[off+8:]),
			}
		}
		d.read++
		d.pos = 0
	}

	v := d.pending[d.pos]
	d.pos++
	return v, nil
}

func float32le(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
