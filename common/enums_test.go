package common

import (
	"errors"
	"testing"
)

func TestScriptPolicy_Text(t *testing.T) {
	tests := []struct {
		text    string
		want    ScriptPolicy
		wantErr bool
	}{
		{"deny", ScriptPolicyDeny, false},
		{"inject", ScriptPolicyInject, false},
		{"Inject", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		var got ScriptPolicy
		err := got.UnmarshalText([]byte(tt.text))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidScriptPolicy) {
				t.Errorf("UnmarshalText(%q) error = %v, want ErrInvalidScriptPolicy", tt.text, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, got, tt.want)
		}
		back, _ := got.MarshalText()
		if string(back) != tt.text {
			t.Errorf("MarshalText() = %q, want %q", back, tt.text)
		}
	}
}

func TestFontSource_Names(t *testing.T) {
	names := FontSourceNames()
	if len(names) != 2 || names[0] != "import" || names[1] != "inline" {
		t.Errorf("FontSourceNames() = %v", names)
	}
	if FontSource(7).IsValid() {
		t.Error("out of range value must be invalid")
	}
	if got := FontSource(7).String(); got != "FontSource(7)" {
		t.Errorf("String() = %q", got)
	}
	if MustParseFontSource("inline") != FontSourceInline {
		t.Error("MustParseFontSource(inline) mismatch")
	}
}
