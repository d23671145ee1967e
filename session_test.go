package ipmigo

import "testing"

func TestAuthTypeStrengthOrdering(t *testing.T) {
	all := []authType{authTypeNone, authTypeMD2, authTypeMD5, authTypePassword}

	if got := strongestAuthType(all); got != authTypeMD5 {
		t.Fatalf("strongestAuthType(all) = %v, want MD5", got)
	}
	if got := weakestAuthType(all); got != authTypeNone {
		t.Fatalf("weakestAuthType(all) = %v, want NONE", got)
	}
}

func TestAuthTypeStrengthEmptyDefaultsToNone(t *testing.T) {
	if got := strongestAuthType(nil); got != authTypeNone {
		t.Fatalf("strongestAuthType(nil) = %v, want NONE", got)
	}
	if got := weakestAuthType(nil); got != authTypeNone {
		t.Fatalf("weakestAuthType(nil) = %v, want NONE", got)
	}
}

func TestPayloadTypeFlags(t *testing.T) {
	p := payloadTypeIPMI
	p.SetEncrypted(true)
	p.SetAuthenticated(true)
	if !p.Encrypted() || !p.Authenticated() {
		t.Fatalf("flags not set: %#02x", byte(p))
	}
	if pure := p.Pure(); pure != payloadTypeIPMI {
		t.Fatalf("Pure() = %#02x, want %#02x", byte(pure), byte(payloadTypeIPMI))
	}
}
