package parser

import "testing"

func TestParseInclude(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{`>"lib.so"`, "lib.so", false},
		{`>"../shared/io.so"`, "../shared/io.so", false},
		{`>"/abs/path with space.so"`, "/abs/path with space.so", false},
		{`>""`, "", true},
		{`>`, "", true},
		{`>lib.so`, "", true},
		{`> "lib.so"`, "", true},
		{`>"lib.so`, "", true},
		{`>"lib.so" extra`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseInclude(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got path %q", tt.line, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"main:", "main", false},
		{"_loop2:", "_loop2", false},
		{"Exit_Point:", "Exit_Point", false},
		{"1invalid:", "", true},
		{":", "", true},
		{"two words:", "", true},
		{"name :", "", true},
		{"a:b:", "", true},
		{"bad-name:", "", true},
		{"héllo:", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLabel(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %q", tt.line, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLineClassification(t *testing.T) {
	if !IsInclude(`>"x.so"`) || IsInclude("out x") {
		t.Error("IsInclude misclassified a line")
	}
	if !IsLabel("loop:") || IsLabel("jump loop") {
		t.Error("IsLabel misclassified a line")
	}
}
