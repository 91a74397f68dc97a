package naming

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cube", "cube"},
		{"Cube (2)", "cube"},
		{"Cube(12)", "cube"},
		{"cube2", "cube"},
		{"Cube 2", "cube"},
		{"Cube Red", "cubered"},
		{"  Start-Button!  ", "startbutton"},
		{"Door 2B", "door2b"},
		{"", Unnamed},
		{"   ", Unnamed},
		{"(3)", Unnamed},
		{"42", Unnamed},
		{"Über Knopf", "überknopf"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []string{
		"Cube", "Cube (2)", "cube 2 3", "A.B.C 7", "unnamed", "", "(1)(2)",
		"İstanbul Gate", "ÉCRAN", "slider_01", "x9y8", "  ", "Ready?",
		"Block One", "ß", "ǅungla",
	}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Errorf("Key not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestKey_DuplicateSuffixCollapses(t *testing.T) {
	if Key("Cube") != Key("Cube (2)") {
		t.Errorf("Cube and Cube (2) should share a key: %q vs %q", Key("Cube"), Key("Cube (2)"))
	}
	if Key("Lever") != Key("Lever1") {
		t.Error("Lever and Lever1 should share a key")
	}
}

func TestInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Block One", "blockone"},
		{"door 2", "door2"},
		{"the Red Cube!", "theredcube"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Input(tt.in); got != tt.want {
			t.Errorf("Input(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pick-up the Ball!", "pick up the ball"},
		{"Set volume to 7.", "set volume to 7"},
		{"set volume to 7.5", "set volume to 7.5"},
		{"  grab,   key  ", "grab key"},
		{"set speed to -3", "set speed to -3"},
		{"drop-3", "drop 3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Words(tt.in); got != tt.want {
			t.Errorf("Words(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
