package reader

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

const threeMFModelPath = "3D/3dmodel.model"

// unitScale maps a declared length unit to its factor in millimeters.
// Unknown or empty units fall back to millimeters.
func unitScale(unit string) float32 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "centimeter":
		return 10
	case "meter":
		return 1000
	case "inch":
		return 25.4
	default:
		return 1
	}
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// openPackaged opens path as a ZIP package and streams the entry chosen by
// pick. Files that are not ZIP archives are streamed as plain XML.
func openPackaged(filename string, format Format, pick func([]*zip.File) *zip.File, mk func(string, io.Reader) decoder) (*Stream, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		if !errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("error opening ZIP: %w", err)
		}
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return newStream(format, mk(filename, file), file), nil
	}

	entry := pick(zr.File)
	if entry == nil {
		zr.Close()
		return nil, fmt.Errorf("no %s document found in archive %s", format, filename)
	}

	rc, err := entry.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("error opening %s: %w", entry.Name, err)
	}

	return newStream(format, mk(filename+"!"+entry.Name, rc), multiCloser{rc, zr}), nil
}

func open3MF(filename string) (*Stream, error) {
	return openPackaged(filename, ThreeMF, pick3MFModel, func(p string, r io.Reader) decoder {
		return &threeMFDecoder{xmlMesh: newXMLMesh(p, r)}
	})
}

func openAMF(filename string) (*Stream, error) {
	return openPackaged(filename, AMF, pickAMFDocument, func(p string, r io.Reader) decoder {
		return &amfDecoder{xmlMesh: newXMLMesh(p, r)}
	})
}

// pick3MFModel prefers the root model part and falls back to the first *.model entry
func pick3MFModel(files []*zip.File) *zip.File {
	var fallback *zip.File
	for _, f := range files {
		if f.Name == threeMFModelPath {
			return f
		}
		if fallback == nil && strings.EqualFold(path.Ext(f.Name), ".model") {
			fallback = f
		}
	}
	return fallback
}

func pickAMFDocument(files []*zip.File) *zip.File {
	var fallback *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(f.Name), ".amf") {
			return f
		}
		if fallback == nil {
			fallback = f
		}
	}
	return fallback
}

// xmlMesh holds the token stream and the active unit scale
type xmlMesh struct {
	path  string
	dec   *xml.Decoder
	scale float32
}

func newXMLMesh(p string, r io.Reader) xmlMesh {
	return xmlMesh{path: p, dec: xml.NewDecoder(r), scale: 1}
}

func (m *xmlMesh) token() (xml.Token, error) {
	tok, err := m.dec.Token()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML in %s: %w", m.path, err)
	}
	return tok, nil
}

func (m *xmlMesh) parseCoord(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		line, _ := m.dec.InputPos()
		return 0, &ParseError{Path: m.path, Line: line, Err: err}
	}
	return float32(f) * m.scale, nil
}

// threeMFDecoder reads <vertex x=".." y=".." z=".."/> elements
type threeMFDecoder struct {
	xmlMesh
}

func (d *threeMFDecoder) next() (Vertex, error) {
	for {
		tok, err := d.token()
		if err != nil {
			return Vertex{}, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "model", "unit":
			u, _ := attr(se, "unit")
			d.scale = unitScale(u)
		case "vertex":
			return d.vertex(se)
		}
	}
}

func (d *threeMFDecoder) vertex(se xml.StartElement) (Vertex, error) {
	var coords [3]float32
	for i, name := range [3]string{"x", "y", "z"} {
		s, ok := attr(se, name)
		if !ok {
			line, _ := d.dec.InputPos()
			return Vertex{}, &ParseError{Path: d.path, Line: line, Err: fmt.Errorf("vertex is missing attribute %q", name)}
		}
		c, err := d.parseCoord(s)
		if err != nil {
			return Vertex{}, err
		}
		coords[i] = c
	}
	return Vertex{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// amfDecoder reads <vertex><coordinates><x>..</x>..</coordinates></vertex>.
// Missing coordinates default to zero.
type amfDecoder struct {
	xmlMesh
}

func (d *amfDecoder) next() (Vertex, error) {
	for {
		tok, err := d.token()
		if err != nil {
			return Vertex{}, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "amf":
			u, _ := attr(se, "unit")
			d.scale = unitScale(u)
		case "vertex":
			return d.vertex()
		}
	}
}

func (d *amfDecoder) vertex() (Vertex, error) {
	var coords [3]float32
	for depth := 1; depth > 0; {
		tok, err := d.token()
		if err == io.EOF {
			return Vertex{}, fmt.Errorf("unclosed vertex element in %s: %w", d.path, ErrTruncated)
		}
		if err != nil {
			return Vertex{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			axis := strings.Index("xyz", t.Name.Local)
			if len(t.Name.Local) != 1 || axis < 0 {
				depth++
				continue
			}
			var content string
			if err := d.dec.DecodeElement(&content, &t); err != nil {
				return Vertex{}, fmt.Errorf("failed to parse XML in %s: %w", d.path, err)
			}
			c, err := d.parseCoord(content)
			if err != nil {
				return Vertex{}, err
			}
			coords[axis] = c
		case xml.EndElement:
			depth--
		}
	}
	return Vertex{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
