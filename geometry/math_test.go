package geometry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var box = Rect{X: 0, Y: 0, Width: 100, Height: 100}

func TestClassifyEdge(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		in   Point
		want Point
	}{
		{"left band", box, Point{5, 50}, Point{0, 50}},
		{"right band", box, Point{95, 50}, Point{100, 50}},
		{"top band", box, Point{50, 5}, Point{50, 0}},
		{"bottom band", box, Point{50, 95}, Point{50, 100}},
		{"top-left corner", box, Point{3, 4}, Point{0, 0}},
		{"bottom-right corner", box, Point{90, 90}, Point{100, 100}},
		{"left edge keeps raw y", box, Point{10, 40}, Point{0, 40}},
		{"dead center resolves right", box, Point{50, 50}, Point{100, 50}},
		{"center-left resolves left", box, Point{40, 50}, Point{0, 50}},
		{"upper middle resolves top", box, Point{45, 30}, Point{50, 0}},
		{"lower middle resolves bottom", box, Point{45, 70}, Point{50, 100}},
		{"offset rect", Rect{X: 200, Y: 100, Width: 80, Height: 50}, Point{205, 125}, Point{200, 125}},
		{"offset rect center", Rect{X: 200, Y: 100, Width: 80, Height: 50}, Point{240, 125}, Point{280, 125}},
		{"zero width no snap", Rect{X: 10, Y: 10}, Point{12, 13}, Point{12, 13}},
		{"negative height no snap", Rect{Width: 10, Height: -5}, Point{1, 1}, Point{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEdge(tt.rect, tt.in))
		})
	}
}

func TestClassifyEdgeAlwaysOnBoundary(t *testing.T) {
	r := Rect{X: 30, Y: 20, Width: 80, Height: 50}
	for x := r.X; x <= r.Right(); x += 2 {
		for y := r.Y; y <= r.Bottom(); y += 2 {
			got := ClassifyEdge(r, Point{x, y})
			assert.True(t, OnBoundary(r, got, 1e-9), "(%v,%v) snapped to %v", x, y, got)
		}
	}
}

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		v, k, want float64
	}{
		{47, 10, 40},
		{40, 10, 40},
		{9.99, 10, 0},
		{-47, 10, -40},
		{123.4, 0, 123.4},
		{123.4, -5, 123.4},
		{0.3, 0.1, 0.3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%v", tt.v, tt.k), func(t *testing.T) {
			assert.InDelta(t, tt.want, SnapToGrid(tt.v, tt.k), 1e-9)
		})
	}
}

func TestSnapToGridIdempotent(t *testing.T) {
	for _, k := range []float64{1, 3, 7.5, 10, 0.1, 25} {
		for v := -250.0; v <= 250; v += 1.37 {
			once := SnapToGrid(v, k)
			assert.Equal(t, once, SnapToGrid(once, k), "v=%v k=%v", v, k)
		}
	}
}

func TestClampNonNegative(t *testing.T) {
	assert.Equal(t, 0.0, ClampNonNegative(-3))
	assert.Equal(t, 4.5, ClampNonNegative(4.5))
}

func TestRectContainsEdges(t *testing.T) {
	assert.True(t, box.Contains(Point{0, 0}))
	assert.True(t, box.Contains(Point{100, 100}))
	assert.False(t, box.Contains(Point{100.1, 50}))
	assert.False(t, box.Contains(Point{-1, 50}))
}
