package profanity

import "testing"

func TestFilter_Contains(t *testing.T) {
	f := NewFilter([]string{"Badword", "  another  ", ""})

	tests := []struct {
		input string
		want  bool
	}{
		{"Team badword", true},
		{"BADWORD!", true},
		{"bad-word", false},
		{"another one bites", true},
		{"clean team name", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := f.Contains(tc.input); got != tc.want {
			t.Fatalf("Contains(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFilter_EmptyList(t *testing.T) {
	f := NewFilter(nil)
	if f.Contains("anything") {
		t.Fatal("empty filter must not match")
	}
}
