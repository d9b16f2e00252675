package encoding

import (
	"testing"
)

func TestToUTF8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain", []byte(`{"p": 8}`), `{"p": 8}`},
		{"utf8 bom", []byte("\xEF\xBB\xBF{}"), "{}"},
		{"utf16 le", []byte{0xFF, 0xFE, '{', 0, '}', 0}, "{}"},
		{"utf16 be", []byte{0xFE, 0xFF, 0, '{', 0, '}'}, "{}"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToUTF8(tt.data)
			if err != nil {
				t.Fatalf("ToUTF8 failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"meshes\\cube.obj", "meshes/cube.obj"},
		{"meshes/cube.obj", "meshes/cube.obj"},
		{"cube.obj", "cube.obj"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.input); got != tt.expected {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
