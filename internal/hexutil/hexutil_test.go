package hexutil

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "empty", in: "", want: []byte{}},
		{name: "lowercase", in: "00ffab", want: []byte{0x00, 0xff, 0xab}},
		{name: "uppercase", in: "DEADBEEF", want: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "odd length", in: "abc", wantErr: true},
		{name: "non-hex character", in: "zz", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidEncoding) {
					t.Fatalf("Decode(%q) error = %v, want ErrInvalidEncoding", tt.in, err)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("Decode(%q) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{name: "valid pairs", in: "0102ff", want: []byte{0x01, 0x02, 0xff}},
		{name: "invalid pair zeroed", in: "01zz03", want: []byte{0x01, 0x00, 0x03}},
		{name: "odd tail dropped", in: "0102f", want: []byte{0x01, 0x02}},
		{name: "empty", in: "", want: []byte{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeLenient(tt.in); !bytes.Equal(got, tt.want) {
				t.Fatalf("DecodeLenient(%q) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestReverseBytes(t *testing.T) {
	t.Parallel()

	in := []byte{1, 2, 3, 4}
	got := ReverseBytes(in)
	if !bytes.Equal(got, []byte{4, 3, 2, 1}) {
		t.Fatalf("ReverseBytes = %v", got)
	}
	if !bytes.Equal(in, []byte{1, 2, 3, 4}) {
		t.Fatalf("ReverseBytes mutated its input: %v", in)
	}
}

func TestReverseHex(t *testing.T) {
	t.Parallel()

	got, err := ReverseHex("aabbcc")
	if err != nil {
		t.Fatalf("ReverseHex error: %v", err)
	}
	if got != "ccbbaa" {
		t.Fatalf("ReverseHex = %q, want %q", got, "ccbbaa")
	}

	if _, err := ReverseHex("abc"); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("ReverseHex odd length error = %v, want ErrInvalidEncoding", err)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got, err := Normalize("DEADbeef")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if got != "deadbeef" {
		t.Fatalf("Normalize = %q", got)
	}

	if _, err := Normalize("nope"); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("Normalize error = %v, want ErrInvalidEncoding", err)
	}
}
