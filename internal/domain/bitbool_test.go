package domain

import (
	"encoding/json"
	"testing"
)

func TestBitBoolScan(t *testing.T) {
	cases := []struct {
		name string
		src  any
		want bool
	}{
		{"bit one", []byte{1}, true},
		{"bit zero", []byte{0}, false},
		{"bool true", true, true},
		{"bool false", false, false},
		{"other byte", []byte{2}, false},
		{"high byte", []byte{0xff}, false},
		{"one then more", []byte{1, 7}, true},
		{"empty bytes", []byte{}, false},
		{"nil", nil, false},
		{"ascii one", []byte("1"), true},
		{"ascii zero", []byte("0"), false},
		{"text true", []byte("true"), true},
		{"int64", int64(3), true},
		{"string zero", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b BitBool
			if err := b.Scan(tc.src); err != nil {
				t.Fatalf("Scan(%#v): %v", tc.src, err)
			}
			if bool(b) != tc.want {
				t.Fatalf("Scan(%#v) = %v, want %v", tc.src, b, tc.want)
			}
			got, ok := NormalizeBool(tc.src)
			if !ok || got != tc.want {
				t.Fatalf("NormalizeBool(%#v) = %v, %v; want %v, true", tc.src, got, ok, tc.want)
			}
		})
	}
}

func TestBitBoolRejectsMeaninglessValues(t *testing.T) {
	var b BitBool
	if err := b.Scan("maybe"); err == nil {
		t.Fatalf("expected error for text that is not a boolean")
	}
	if err := b.Scan(struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestBitBoolJSON(t *testing.T) {
	var v struct {
		A BitBool `json:"a"`
		B BitBool `json:"b"`
		C BitBool `json:"c"`
		D BitBool `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"a":1,"b":0,"c":true,"d":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.A || v.B || !v.C || v.D {
		t.Fatalf("unexpected values: %+v", v)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":true,"b":false,"c":true,"d":false}` {
		t.Fatalf("marshal = %s", out)
	}
}
