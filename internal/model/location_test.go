package model

import (
	"testing"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name string
		x    int32
		y    int32
		z    int32
		want Location
	}{
		{
			name: "zero values",
			want: Location{},
		},
		{
			name: "positive coordinates",
			x:    100,
			y:    200,
			z:    300,
			want: Location{X: 100, Y: 200, Z: 300},
		},
		{
			name: "negative coordinates",
			x:    -100,
			y:    -200,
			z:    -300,
			want: Location{X: -100, Y: -200, Z: -300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLocation(tt.x, tt.y, tt.z)
			if got != tt.want {
				t.Errorf("NewLocation() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocation_WithCoordinates(t *testing.T) {
	orig := NewLocation(1, 2, 3)
	moved := orig.WithCoordinates(10, 20, 30)

	if orig != (Location{X: 1, Y: 2, Z: 3}) {
		t.Errorf("original mutated: %+v", orig)
	}
	if moved != (Location{X: 10, Y: 20, Z: 30}) {
		t.Errorf("WithCoordinates() = %+v", moved)
	}
}

func TestLocation_DistanceSquared(t *testing.T) {
	tests := []struct {
		name string
		a, b Location
		want int64
	}{
		{"same point", NewLocation(5, 5, 5), NewLocation(5, 5, 5), 0},
		{"x axis", NewLocation(0, 0, 0), NewLocation(3, 0, 0), 9},
		{"3-4-5", NewLocation(0, 0, 0), NewLocation(3, 4, 0), 25},
		{"negative", NewLocation(-1, -1, -1), NewLocation(1, 1, 1), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.DistanceSquared(tt.b); got != tt.want {
				t.Errorf("DistanceSquared() = %d, want %d", got, tt.want)
			}
			if got := tt.b.DistanceSquared(tt.a); got != tt.want {
				t.Errorf("DistanceSquared() not symmetric: %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocation_InRange(t *testing.T) {
	center := NewLocation(0, 0, 0)

	if !center.InRange(NewLocation(3, 4, 0), 5) {
		t.Error("point on the boundary must be in range")
	}
	if center.InRange(NewLocation(3, 4, 1), 5) {
		t.Error("point past the boundary must be out of range")
	}
	if !center.InRange(center, 0) {
		t.Error("zero radius must include the center")
	}
}
