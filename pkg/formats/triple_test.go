package formats

import (
	"errors"
	"testing"

	"github.com/Faultbox/penumbra/pkg/math"
)

func TestParseTriple(t *testing.T) {
	tests := []struct {
		in      string
		want    math.Vec3
		wantErr error
	}{
		{"0.9 0.9 0.9", math.Vec3{X: 0.9, Y: 0.9, Z: 0.9}, nil},
		{"100 40 50", math.Vec3{X: 100, Y: 40, Z: 50}, nil},
		{"  -1  2.5 3e1 ", math.Vec3{X: -1, Y: 2.5, Z: 30}, nil},
		{"1 2 3 4", math.Vec3{X: 1, Y: 2, Z: 3}, nil},
		{"1 2", math.Vec3{}, ErrShortTriple},
		{"", math.Vec3{}, ErrShortTriple},
		{"1 b 3", math.Vec3{}, ErrMalformedNumber},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTriple(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseTriple(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTriple(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTriple(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
