package errors

import (
	"testing"
)

func TestValidateIdent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "x", false},
		{"valid with underscore", "_tmp_1", false},
		{"valid with dot", "hdr.eth", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"leading digit", "1x", true},
		{"dash", "a-b", true},
		{"space", "a b", true},
		{"null byte", "a\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdent(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdent(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCode Code
	}{
		{"valid", "constfold", false, ""},
		{"valid underscore", "dead_code", false, ""},
		{"uppercase", "ConstFold", true, ErrCodeInvalidPass},
		{"empty", "", true, ErrCodeInvalidPass},
		{"comma", "a,b", true, ErrCodeInvalidPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePassName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && GetCode(err) != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestValidateNodeRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "12", false},
		{"symbolic", "start#3", false},
		{"empty", "", true},
		{"space", "a b", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"relative", "prog.json", false},
		{"absolute", "/tmp/prog.yaml", false},
		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"control char", "a\x01.json", true},
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
