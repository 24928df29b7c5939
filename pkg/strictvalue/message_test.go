package strictvalue

import "testing"

func TestExpected(t *testing.T) {
	tests := []struct {
		name     string
		types    []ValueType
		value    string
		property string
		custom   string
		want     string
	}{
		{
			name:     "two types",
			types:    []ValueType{TypeVariable, TypeFunction},
			value:    "red",
			property: "color",
			want:     `Expected variable or function for "red" of "color"`,
		},
		{
			name:     "one type",
			types:    []ValueType{TypeVariable},
			value:    "10px",
			property: "width",
			want:     `Expected variable for "10px" of "width"`,
		},
		{
			name:     "three types",
			types:    []ValueType{TypeVariable, TypeFunction, TypeKeyword},
			value:    "#fff",
			property: "fill",
			want:     `Expected variable, function or keyword for "#fff" of "fill"`,
		},
		{
			name:     "no types",
			value:    "red",
			property: "color",
			want:     `Expected  for "red" of "color"`,
		},
		{
			name:     "custom template",
			types:    []ValueType{TypeVariable, TypeKeyword},
			value:    "red",
			property: "color",
			custom:   "Use ${types} instead of ${value} in ${property}",
			want:     "Use variable or keyword instead of red in color",
		},
		{
			name:     "custom template replaces first occurrence only",
			types:    []ValueType{TypeVariable},
			value:    "red",
			property: "color",
			custom:   "${value} ${value} ${property}",
			want:     "red ${value} color",
		},
		{
			name:     "custom template ignores unknown placeholders",
			types:    []ValueType{TypeVariable},
			value:    "red",
			property: "color",
			custom:   "${types}: ${severity}",
			want:     "variable: ${severity}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expected(tt.types, tt.value, tt.property, tt.custom); got != tt.want {
				t.Errorf("Expected() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpected_DoesNotModifyTypes(t *testing.T) {
	types := []ValueType{TypeVariable, TypeFunction, TypeKeyword}
	Expected(types, "red", "color", "")

	if types[0] != TypeVariable || types[1] != TypeFunction || types[2] != TypeKeyword {
		t.Errorf("types modified: %v", types)
	}
}

func TestClassify_CustomMessage(t *testing.T) {
	policy := mustPolicy(t, map[string]any{"message": "${property}: ${value} is not a token"})

	res := Classify("#000", "color", policy)
	if want := "color: #000 is not a token"; res.Message != want {
		t.Errorf("Message = %q, want %q", res.Message, want)
	}
}
