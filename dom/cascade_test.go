package dom

import "testing"

func TestDocument_ComputedPosition(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"default", `<div id="x" class="a"></div>`, "static"},
		{"stylesheet", `<style>.a { position: absolute }</style><div id="x" class="a"></div>`, "absolute"},
		{"inline wins", `<style>.a { position: absolute }</style><div id="x" class="a" style="position: relative"></div>`, "relative"},
		{"important stylesheet", `<style>.a { position: absolute !important }</style><div id="x" class="a" style="position: relative"></div>`, "absolute"},
		{"important inline", `<style>.a { position: absolute !important }</style><div id="x" class="a" style="position: fixed !important"></div>`, "fixed"},
		{"specificity", `<style>#x { position: fixed } .a { position: absolute }</style><div id="x" class="a"></div>`, "fixed"},
		{"later wins", `<style>.a { position: absolute } .a { position: sticky }</style><div id="x" class="a"></div>`, "sticky"},
		{"second sheet", `<style>.a { position: absolute }</style><style>div.a { position: relative }</style><div id="x" class="a"></div>`, "relative"},
		{"print ignored", `<style>@media print { .a { position: absolute } }</style><div id="x" class="a"></div>`, "static"},
		{"screen applies", `<style>@media screen { .a { position: absolute } }</style><div id="x" class="a"></div>`, "absolute"},
		{"not matching", `<style>.b { position: absolute }</style><div id="x" class="a"></div>`, "static"},
		{"upper case", `<div id="x" style="POSITION: Relative"></div>`, "relative"},
		{"pseudo element", `<style>.a::before { position: absolute }</style><div id="x" class="a"></div>`, "static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.html)
			nodes, err := doc.QueryAll("#x")
			if err != nil || len(nodes) != 1 {
				t.Fatalf("QueryAll() = %v, %v", nodes, err)
			}
			if got := doc.ComputedPosition(nodes[0]); got != tt.want {
				t.Errorf("ComputedPosition() = %q, want %q", got, tt.want)
			}
		})
	}
}
