package match

import "testing"

func TestDistance(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "kitten", 6},
		{"kitten", "", 6},
		{"kitten", "sitting", 3},
		{"one more time", "one more time", 0},
		{"daft punk", "daft punks", 1},
	}

	for _, tc := range testCases {
		got := Distance(tc.a, tc.b)
		if got != tc.expected {
			t.Errorf("Distance(%q, %q) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"daft punk", "punk daft"},
		{"one more time", "harder better faster stronger"},
		{"", "anything"},
		{"same", "same"},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if ab != ba {
			t.Errorf("Distance(%q, %q) = %d but Distance(%q, %q) = %d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestDistanceIdentityIsZero(t *testing.T) {
	for _, s := range []string{"", "a", "one more time", "röyksopp"} {
		if d := Distance(s, s); d != 0 {
			t.Errorf("Distance(%q, %q) = %d, expected 0", s, s, d)
		}
	}
}
