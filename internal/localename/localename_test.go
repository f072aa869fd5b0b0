package localename

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Thành phố Hà Nội", "Ha Noi"},
		{"thành phố Hồ Chí Minh", "Ho Chi Minh"},
		{"Tỉnh Quảng Ninh", "Quang Ninh"},
		{"Thị xã Sơn Tây", "Son Tay"},
		{"Quận Đống Đa", "Dong Da"},
		{"Huyện Củ Chi", "Cu Chi"},
		{"Đà Nẵng", "Da Nang"},
		{"London", "London"},
		{"  Paris  ", "Paris"},
		{"Hà   Nội", "Ha Noi"},
		{"", ""},
		{"   ", ""},
		// Any whitespace counts as the prefix separator.
		{"Tỉnh\nQuảng Ninh", "Quang Ninh"},
		{"Thành phố\tHải Phòng", "Hai Phong"},
		// Prefix word without trailing whitespace is part of the name.
		{"Tỉnhville", "Tinhville"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Thành phố Hà Nội",
		"Huế",
		"Buôn Ma Thuột",
		"New   York",
		"Quận 1",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

// Every accented character in the table must fold to its base letter.
func TestNormalizeFoldsWholeTable(t *testing.T) {
	for accented, base := range accentTable {
		got := Normalize(string(accented))
		if got != string(base) {
			t.Errorf("Normalize(%q) = %q, want %q", string(accented), got, string(base))
		}
	}
}
