package shorthand

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{value: "", want: nil},
		{value: "   ", want: nil},
		{value: "10px", want: []string{"10px"}},
		{value: "1px  solid\tred", want: []string{"1px", "solid", "red"}},
		{value: "1px solid rgb(0, 0, 0)", want: []string{"1px", "solid", "rgb(0, 0, 0)"}},
		{value: "calc(100% - (2 * 4px)) auto", want: []string{"calc(100% - (2 * 4px))", "auto"}},
		{value: `"a b" c`, want: []string{`"a b"`, "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := Split(tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsShorthand(t *testing.T) {
	for _, p := range []string{"margin", "PADDING", "border", "border-top", "gap", "outline", "border-radius"} {
		if !IsShorthand(p) {
			t.Errorf("IsShorthand(%q) = false", p)
		}
	}
	for _, p := range []string{"margin-top", "color", "", "border-top-color"} {
		if IsShorthand(p) {
			t.Errorf("IsShorthand(%q) = true", p)
		}
	}
}

func TestLonghands(t *testing.T) {
	got := Longhands("gap")
	if want := []string{"row-gap", "column-gap"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Longhands(gap) = %v, want %v", got, want)
	}
	got[0] = "changed"
	if Longhands("gap")[0] != "row-gap" {
		t.Error("Longhands shares its backing array")
	}
	if Longhands("color") != nil {
		t.Error("Longhands(color) should be nil")
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		property string
		value    string
		recurse  bool
		want     []Longhand
	}{
		{
			name:     "box one value",
			property: "margin",
			value:    "0",
			want: []Longhand{
				{"margin-top", "0"}, {"margin-right", "0"}, {"margin-bottom", "0"}, {"margin-left", "0"},
			},
		},
		{
			name:     "box two values",
			property: "padding",
			value:    "1px $gutter",
			want: []Longhand{
				{"padding-top", "1px"}, {"padding-right", "$gutter"}, {"padding-bottom", "1px"}, {"padding-left", "$gutter"},
			},
		},
		{
			name:     "box three values",
			property: "inset",
			value:    "0 auto 1px",
			want: []Longhand{
				{"top", "0"}, {"right", "auto"}, {"bottom", "1px"}, {"left", "auto"},
			},
		},
		{
			name:     "box four values",
			property: "border-color",
			value:    "red green blue var(--x)",
			want: []Longhand{
				{"border-top-color", "red"}, {"border-right-color", "green"},
				{"border-bottom-color", "blue"}, {"border-left-color", "var(--x)"},
			},
		},
		{name: "box five values", property: "margin", value: "1 2 3 4 5", want: nil},
		{name: "radius slash syntax", property: "border-radius", value: "10px / 20px", want: nil},
		{
			name:     "pair one value",
			property: "overflow",
			value:    "hidden",
			want:     []Longhand{{"overflow-x", "hidden"}, {"overflow-y", "hidden"}},
		},
		{
			name:     "pair two values",
			property: "gap",
			value:    "4px calc(1rem + 2px)",
			want:     []Longhand{{"row-gap", "4px"}, {"column-gap", "calc(1rem + 2px)"}},
		},
		{name: "pair three values", property: "gap", value: "1 2 3", want: nil},
		{
			name:     "line full",
			property: "border",
			value:    "1px solid #000",
			want: []Longhand{
				{"border-width", "1px"}, {"border-style", "solid"}, {"border-color", "#000"},
			},
		},
		{
			name:     "line any order",
			property: "outline",
			value:    "red dashed thick",
			want: []Longhand{
				{"outline-width", "thick"}, {"outline-style", "dashed"}, {"outline-color", "red"},
			},
		},
		{
			name:     "line variables fill width then color",
			property: "border-top",
			value:    "$w solid $c",
			want: []Longhand{
				{"border-top-width", "$w"}, {"border-top-style", "solid"}, {"border-top-color", "$c"},
			},
		},
		{
			name:     "line style only",
			property: "border",
			value:    "none",
			want:     []Longhand{{"border-style", "none"}},
		},
		{
			name:     "line global keyword",
			property: "outline",
			value:    "inherit",
			want: []Longhand{
				{"outline-width", "inherit"}, {"outline-style", "inherit"}, {"outline-color", "inherit"},
			},
		},
		{name: "line two styles", property: "border", value: "solid dashed", want: nil},
		{name: "not a shorthand", property: "color", value: "red", want: nil},
		{name: "empty value", property: "margin", value: "", want: nil},
		{
			name:     "recursive",
			property: "border",
			value:    "1px solid",
			recurse:  true,
			want: []Longhand{
				{"border-top-width", "1px"}, {"border-right-width", "1px"},
				{"border-bottom-width", "1px"}, {"border-left-width", "1px"},
				{"border-top-style", "solid"}, {"border-right-style", "solid"},
				{"border-bottom-style", "solid"}, {"border-left-style", "solid"},
			},
		},
		{
			name:     "recursive leaves non-shorthands alone",
			property: "margin",
			value:    "auto",
			recurse:  true,
			want: []Longhand{
				{"margin-top", "auto"}, {"margin-right", "auto"}, {"margin-bottom", "auto"}, {"margin-left", "auto"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.property, tt.value, tt.recurse)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand(%q, %q) = %v, want %v", tt.property, tt.value, got, tt.want)
			}
		})
	}
}
