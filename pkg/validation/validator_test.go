package validation

import (
	"strconv"
	"strings"
	"testing"
)

type declaration struct {
	Colors     []string       `validate:"required,min=1,unique,dive,category"`
	Style      string         `validate:"omitempty,discriminant"`
	Role       string         `validate:"required,role"`
	Attributes map[string]any `validate:"attrcount,dive,keys,attrkey,endkeys"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   declaration
		wantErr string
	}{
		{"valid", declaration{Colors: []string{"Blue", "Cerulean"}, Style: "gravy", Role: "middle"}, ""},
		{"valid without style", declaration{Colors: []string{"Puce"}, Role: "Sink"}, ""},
		{"missing colors", declaration{Role: "source"}, "field is required"},
		{"duplicate colors", declaration{Colors: []string{"Blue", "Blue"}, Role: "source"}, "unique"},
		{"bad color", declaration{Colors: []string{"9lives"}, Role: "source"}, "not a valid color name"},
		{"bad style", declaration{Colors: []string{"Blue"}, Style: "Rodeo Style", Role: "source"}, "not a valid style tag"},
		{"bad role", declaration{Colors: []string{"Blue"}, Role: "hub"}, "must be one of source, sink, middle"},
		{"valid attributes", declaration{Colors: []string{"Blue"}, Role: "sink", Attributes: map[string]any{"resonance": 3}}, ""},
		{"bad attribute key", declaration{Colors: []string{"Blue"}, Role: "sink", Attributes: map[string]any{"1st": true}}, "not a valid attribute key"},
		{"too many attributes", declaration{Colors: []string{"Blue"}, Role: "sink", Attributes: manyAttributes(MaxAttributes + 1)}, "at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateStruct = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func manyAttributes(n int) map[string]any {
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		out["a"+strconv.Itoa(i)] = i
	}
	return out
}

func TestValidateStruct_ReportsAllFields(t *testing.T) {
	err := ValidateStruct(declaration{Colors: []string{"-"}, Style: "UPPER", Role: "nope"})
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"color name", "style tag", "source, sink, middle"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidateStruct_Nil(t *testing.T) {
	if err := ValidateStruct(nil); err == nil {
		t.Error("ValidateStruct(nil) succeeded")
	}
}

func TestValidateColorName(t *testing.T) {
	valid := []string{"Blue", "cerulean", "Puce_2", "deep-red"}
	invalid := []string{"", "2blue", "blue sky", strings.Repeat("a", MaxCategoryLength+1)}

	for _, name := range valid {
		if err := ValidateColorName(name); err != nil {
			t.Errorf("ValidateColorName(%q) = %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := ValidateColorName(name); err == nil {
			t.Errorf("ValidateColorName(%q) succeeded", name)
		}
	}
}

func TestValidateDiscriminant(t *testing.T) {
	valid := []string{"gravy", "rodeo-style", "greezelax.v2", "a_b"}
	invalid := []string{"", "Gravy", "rodeo style", "-lead", strings.Repeat("x", MaxDiscriminantLength+1)}

	for _, s := range valid {
		if err := ValidateDiscriminant(s); err != nil {
			t.Errorf("ValidateDiscriminant(%q) = %v", s, err)
		}
	}
	for _, s := range invalid {
		if err := ValidateDiscriminant(s); err == nil {
			t.Errorf("ValidateDiscriminant(%q) succeeded", s)
		}
	}
}

func TestValidateAttributeKey(t *testing.T) {
	if err := ValidateAttributeKey("frobulatable"); err != nil {
		t.Errorf("ValidateAttributeKey(frobulatable) = %v", err)
	}
	for _, k := range []string{"", "1st", "has space"} {
		if err := ValidateAttributeKey(k); err == nil {
			t.Errorf("ValidateAttributeKey(%q) succeeded", k)
		}
	}
}
