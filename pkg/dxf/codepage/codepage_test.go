package codepage

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ANSI_1252", true},
		{"ansi_932", true},
		{" ANSI_1251 ", true},
		{"UTF-8", true},
		{"ANSI_9999", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := Lookup(tt.name); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		codepage string
		in       []byte
		want     string
	}{
		{"windows-1252 e-acute", "ANSI_1252", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"windows-1251 cyrillic", "ANSI_1251", []byte{0xC4, 0xE0}, "Да"},
		{"shift-jis", "ANSI_932", []byte{0x93, 0xFA, 0x96, 0x7B}, "日本"},
		{"unknown falls back to 1252", "NOPE", []byte{0xB0}, "°"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.codepage, tt.in)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.codepage, got, tt.want)
			}
		})
	}
}

func TestDecodeString(t *testing.T) {
	if got := DecodeString("ANSI_1251", "\xc4\xe0"); got != "Да" {
		t.Errorf("DecodeString = %q, want %q", got, "Да")
	}
	// Valid UTF-8 is left alone.
	if got := DecodeString("ANSI_1251", "日本"); got != "日本" {
		t.Errorf("DecodeString = %q, want unchanged", got)
	}
	if got := Decoder("ANSI_1252")("caf\xe9"); got != "café" {
		t.Errorf("Decoder = %q, want %q", got, "café")
	}
}
