package normalize

import "testing"

func TestRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"guard", "guard"},
		{"PRINCIPAL", "principal"},
		{"  Guard  ", "guard"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Role(tt.input)
			if got != tt.want {
				t.Errorf("Role(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"555-0001", "5550001"},
		{"(555) 000-1234", "5550001234"},
		{"555.000.1234", "5550001234"},
		{"+1 555 000 1234", "+15550001234"},
		{"  5550001  ", "5550001"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Phone(tt.input)
			if got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
