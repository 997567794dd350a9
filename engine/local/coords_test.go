package local

import (
	"testing"

	"isolation-local/types"
)

func TestPosToDisplay(t *testing.T) {
	tests := []struct {
		pos    types.Position
		height int
		want   string
	}{
		{types.Position{Row: 6, Col: 0}, 7, "a1"},
		{types.Position{Row: 0, Col: 6}, 7, "g7"},
		{types.Position{Row: 2, Col: 2}, 7, "c5"},
		{types.Position{Row: 0, Col: 0}, 10, "a10"},
		{types.NoMove, 7, "-"},
	}
	for _, tt := range tests {
		if got := PosToDisplay(tt.pos, tt.height); got != tt.want {
			t.Errorf("PosToDisplay(%v, %d) = %q, want %q", tt.pos, tt.height, got, tt.want)
		}
	}
}

func TestDisplayToPos(t *testing.T) {
	tests := []struct {
		input   string
		want    types.Position
		wantErr bool
	}{
		{"a1", types.Position{Row: 6, Col: 0}, false},
		{"G7", types.Position{Row: 0, Col: 6}, false},
		{" c5 ", types.Position{Row: 2, Col: 2}, false},
		{"h1", types.NoMove, true},
		{"a8", types.NoMove, true},
		{"a0", types.NoMove, true},
		{"ax", types.NoMove, true},
		{"a", types.NoMove, true},
		{"", types.NoMove, true},
	}
	for _, tt := range tests {
		got, err := DisplayToPos(tt.input, 7, 7)
		if tt.wantErr {
			if err == nil {
				t.Errorf("DisplayToPos(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("DisplayToPos(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestCoordsRoundTrip(t *testing.T) {
	width, height := 5, 4
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			pos := types.Position{Row: row, Col: col}
			got, err := DisplayToPos(PosToDisplay(pos, height), width, height)
			if err != nil || got != pos {
				t.Errorf("round trip of %v gave %v, %v", pos, got, err)
			}
		}
	}
}
