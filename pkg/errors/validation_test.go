package errors

import (
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "blur", false},
		{"valid with dash", "edge-detect", false},
		{"valid with underscore", "final_output", false},
		{"valid with dot", "layer.base", false},
		{"valid with space", "base layer", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"port separator", "blur:0", true},
		{"path separator", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "out.png", false},
		{"valid nested", "renders/out.png", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secrets.png", true},
		{"embedded traversal", "renders/../../x.png", true},
		{"backslash", "renders\\out.png", true},
		{"null byte", "out\x00.png", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
