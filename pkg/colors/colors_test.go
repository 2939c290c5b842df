package colors

import "testing"

func TestParseHexForms(t *testing.T) {
	tests := []struct {
		input string
		want  RGB
		ok    bool
	}{
		{input: "#7c3aed", want: RGB{R: 0x7c, G: 0x3a, B: 0xed}, ok: true},
		{input: "7c3aed", want: RGB{R: 0x7c, G: 0x3a, B: 0xed}, ok: true},
		{input: "#fff", want: RGB{R: 255, G: 255, B: 255}, ok: true},
		{input: " #f43f5e ", want: RGB{R: 0xf4, G: 0x3f, B: 0x5e}, ok: true},
		{input: "#ffff", ok: false},
		{input: "#gggggg", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseHex(tt.input)
		if ok != tt.ok {
			t.Fatalf("ParseHex(%q) ok=%v want %v", tt.input, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("ParseHex(%q) = %+v want %+v", tt.input, got, tt.want)
		}
	}
}

func TestMixEndpointsAndClamping(t *testing.T) {
	a := RGB{R: 0, G: 100, B: 200}
	b := RGB{R: 255, G: 0, B: 100}

	if got := Mix(a, b, 0); got != a {
		t.Fatalf("Mix t=0 should return the first color, got %+v", got)
	}
	if got := Mix(a, b, 1); got != b {
		t.Fatalf("Mix t=1 should return the second color, got %+v", got)
	}
	if got := Mix(a, b, -5); got != a {
		t.Fatalf("Mix should clamp t below 0, got %+v", got)
	}
	if got := Mix(a, b, 5); got != b {
		t.Fatalf("Mix should clamp t above 1, got %+v", got)
	}

	mid := Mix(a, b, 0.5)
	if mid.R != 128 || mid.G != 50 || mid.B != 150 {
		t.Fatalf("unexpected midpoint %+v", mid)
	}
}

func TestShadeAndLighten(t *testing.T) {
	c := RGB{R: 100, G: 200, B: 40}
	darker := Shade(c, 0.75)
	if darker.R != 75 || darker.G != 150 || darker.B != 30 {
		t.Fatalf("unexpected shade %+v", darker)
	}
	if got := Shade(c, 10); got.G != 255 {
		t.Fatalf("shade must clamp at 255, got %+v", got)
	}
	if got := Lighten(c, 1); (got != RGB{R: 255, G: 255, B: 255}) {
		t.Fatalf("full lighten should be white, got %+v", got)
	}
}

func TestCSS(t *testing.T) {
	if got := (RGB{R: 252, G: 231, B: 243}).CSS(); got != "rgb(252 231 243)" {
		t.Fatalf("unexpected css %q", got)
	}
}
