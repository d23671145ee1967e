package commands

import (
	"errors"
	"testing"

	"github.com/tatsushid/ipmigo"
)

func TestParseRawByte(t *testing.T) {
	cases := map[string]byte{
		"0x06": 0x06,
		"06":   0x06,
		"2e":   0x2e,
		"FF":   0xff,
	}
	for in, want := range cases {
		got, err := parseRawByte(in)
		if err != nil {
			t.Fatalf("parseRawByte(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseRawByte(%q) = %#02x, want %#02x", in, got, want)
		}
	}
}

func TestParseRawByteInvalid(t *testing.T) {
	_, err := parseRawByte("zz")
	var argErr *ipmigo.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("parseRawByte(\"zz\") err = %v, want *ipmigo.ArgumentError", err)
	}
}

func TestExitCodeForArgumentError(t *testing.T) {
	err := &ipmigo.ArgumentError{Value: "x", Message: "bad"}
	if code := ExitCodeFor(err); code != 2 {
		t.Fatalf("ExitCodeFor(ArgumentError) = %d, want 2", code)
	}
}

func TestExitCodeForOtherError(t *testing.T) {
	err := &ipmigo.MessageError{Message: "transport down"}
	if code := ExitCodeFor(err); code != 1 {
		t.Fatalf("ExitCodeFor(MessageError) = %d, want 1", code)
	}
}
