package core

import (
	"errors"
	"math"
	"testing"
)

// TestMarshal tests PDF syntax for direct objects
func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want string
	}{
		{"nil", nil, "null"},
		{"null", Null{}, "null"},
		{"true", Bool(true), "true"},
		{"int", Int(-17), "-17"},
		{"real", Real(0.15), "0.15"},
		{"string", String("THE ASK"), "(THE ASK)"},
		{"string parens", String("a (b) c"), `(a \(b\) c)`},
		{"string backslash", String(`C:\dir`), `(C:\\dir)`},
		{"string newline", String("a\nb"), `(a\nb)`},
		{"string high byte", String("caf\xe9"), `(caf\351)`},
		{"string control", String("\x01"), `(\001)`},
		{"name", Name("Helvetica-Bold"), "/Helvetica-Bold"},
		{"name space", Name("A B"), "/A#20B"},
		{"name hash", Name("A#B"), "/A#23B"},
		{"name delimiter", Name("A/B"), "/A#2FB"},
		{"array", Array{Int(0), Int(0), Real(792), Real(612)}, "[0 0 792 612]"},
		{"empty array", Array{}, "[]"},
		{"dict", Dict{"Type": Name("Page"), "Parent": IndirectRef{Number: 2}}, "<</Parent 2 0 R /Type /Page>>"},
		{"empty dict", Dict{}, "<<>>"},
		{"nested", Dict{"Font": Dict{"F1": IndirectRef{Number: 3}}}, "<</Font <</F1 3 0 R>>>>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.obj)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestMarshalErrors tests objects that cannot be written directly
func TestMarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want error
	}{
		{"NaN", Real(math.NaN()), ErrNonFinite},
		{"Inf in array", Array{Real(math.Inf(-1))}, ErrNonFinite},
		{"Inf in dict", Dict{"X": Real(math.Inf(1))}, ErrNonFinite},
		{"stream", NewStream(nil, []byte("x")), ErrDirectStream},
		{"stream in dict", Dict{"S": NewStream(nil, nil)}, ErrDirectStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.obj)
			if !errors.Is(err, tt.want) {
				t.Errorf("Marshal() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestAppendObjectAppends tests that output is appended to dst
func TestAppendObjectAppends(t *testing.T) {
	dst := []byte("/Count ")
	got, err := AppendObject(dst, Int(3))
	if err != nil {
		t.Fatalf("AppendObject failed: %v", err)
	}
	if string(got) != "/Count 3" {
		t.Errorf("AppendObject() = %s, want /Count 3", got)
	}
}
