package directive

import (
	"maps"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		token string
		want  Position
	}{
		{"top-10px", Position{"top": "10px"}},
		{"top--10px", Position{"top": "-10px"}},
		{"left-50%", Position{"left": "50%"}},
		{"right--10px", Position{"right": "-10px"}},
		{"bottom-2em", Position{"bottom": "2em"}},
		{"top", Position{"top": "0"}},
		{"bottom-", Position{"bottom": "0"}},
		{"center", Position{"left": "50%", "top": "50%", "transform": "translate(-50%, -50%)"}},
		{"center-5px", Position{"left": "50%", "top": "50%", "transform": "translate(-50%, -50%)"}},
		{"left-calc(10px--2px)", Position{"left": "calc(10px-2px)"}},
		{"top-left-10px", Position{"top": "left-10px"}},
		{"top-abc", Position{"top": "abc"}},
		{"topx", Position{}},
		{"middle-10px", Position{}},
		{"", Position{}},
		{"10px-top", Position{}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := ParsePosition(tt.token)
			if !maps.Equal(got, tt.want) {
				t.Errorf("ParsePosition(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestIsAmbiguousPosition(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"top-left-10px", true},
		{"bottom--right", true},
		{"top-10px", false},
		{"top--10px", false},
		{"top", false},
		{"center-left", false},
		{"width-10px", false},
	}

	for _, tt := range tests {
		if got := isAmbiguousPosition(tt.token); got != tt.want {
			t.Errorf("isAmbiguousPosition(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestPosition_Merge(t *testing.T) {
	p := Position{}
	p.Merge(ParsePosition("top-10px"))
	p.Merge(ParsePosition("left-5px"))
	p.Merge(ParsePosition("top-20px"))

	want := Position{"top": "20px", "left": "5px"}
	if !maps.Equal(p, want) {
		t.Errorf("Merge() = %v, want %v", p, want)
	}

	keys := p.Keys()
	if len(keys) != 2 || keys[0] != "left" || keys[1] != "top" {
		t.Errorf("Keys() = %v, want [left top]", keys)
	}
}
