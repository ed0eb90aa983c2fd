package ansi

import "testing"

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{Bold + Cyan + "ATLAS" + Reset, "ATLAS"},
		{"plain", "plain"},
		{Red + "✗ " + Reset + "landmarks", "✗ landmarks"},
		{"\033[1;31mcombined\033[0m", "combined"},
	}
	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
