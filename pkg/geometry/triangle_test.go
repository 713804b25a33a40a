package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0 // (3 * 4) / 2 = 6

	if math.Abs(area-expected) > 1e-10 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleLongestEdge(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	edge := tri.LongestEdge()
	expected := 5.0 // hypotenuse of 3-4-5

	if math.Abs(edge-expected) > 1e-10 {
		t.Errorf("LongestEdge failed: expected %v, got %v", expected, edge)
	}
}

func TestTriangleSignedVolume(t *testing.T) {
	// Unit axis triangle with the origin spans a tetrahedron of volume 1/6
	tri := NewTriangle(
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
		NewVector3(0, 0, 1),
	)

	volume := tri.SignedVolume()
	expected := 1.0 / 6.0

	if math.Abs(volume-expected) > 1e-12 {
		t.Errorf("SignedVolume failed: expected %v, got %v", expected, volume)
	}

	flipped := NewTriangle(tri.V1, tri.V3, tri.V2)
	if math.Abs(flipped.SignedVolume()+expected) > 1e-12 {
		t.Errorf("SignedVolume of flipped winding failed: expected %v, got %v", -expected, flipped.SignedVolume())
	}
}

func TestTriangleDegenerate(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 0),
		NewVector3(1, 1, 1),
		NewVector3(2, 2, 2),
	)

	if tri.Area() != 0 {
		t.Errorf("Area of collinear triangle should be 0, got %v", tri.Area())
	}
}
