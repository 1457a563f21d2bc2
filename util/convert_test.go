package util

import "testing"

func TestStringToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"42", 42},
		{"-7", -7},
		{"abc", 0},
		{"12abc", 0},
	}

	for _, tc := range cases {
		if got := StringToInt(tc.in); got != tc.want {
			t.Errorf("StringToInt(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseUserCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"10,000+ users", 10000},
		{"10,000,000+ users", 10000000},
		{"523 users", 523},
		{"1,204", 1204},
		{"no data", 0},
		{"N/A", 0},
		{"about 2K", 2}, // 只保留数字字符
	}

	for _, tc := range cases {
		if got := ParseUserCount(tc.in); got != tc.want {
			t.Errorf("ParseUserCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatUserCount(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0 users"},
		{523, "523 users"},
		{1500, "2K+ users"},
		{10000, "10K+ users"},
		{2500000, "2.5M+ users"},
	}

	for _, tc := range cases {
		if got := FormatUserCount(tc.in); got != tc.want {
			t.Errorf("FormatUserCount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
