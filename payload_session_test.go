package ipmigo

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"reflect"
	"testing"
)

func TestCipherSuiteIDsTableSize(t *testing.T) {
	if n := len(cipherSuiteIDs); n != 20 {
		t.Fatalf("len(cipherSuiteIDs) = %d, want 20", n)
	}
}

func TestRequiredAlgorithmsMatchTable(t *testing.T) {
	for cid, suite := range cipherSuiteIDs {
		if got, want := requiredAuthentication(uint(cid)), suite.Auth != authRakpNone; got != want {
			t.Fatalf("cid %d: requiredAuthentication() = %v, want %v", cid, got, want)
		}
		if got, want := requiredIntegrity(uint(cid)), suite.Integrity != integrityNone; got != want {
			t.Fatalf("cid %d: requiredIntegrity() = %v, want %v", cid, got, want)
		}
		if got, want := requiredConfidentiality(uint(cid)), suite.Crypt != cryptNone; got != want {
			t.Fatalf("cid %d: requiredConfidentiality() = %v, want %v", cid, got, want)
		}
	}
}

func TestXRC4StringNames(t *testing.T) {
	if s := cryptXRC4_128.String(); s != "xRC4-128" {
		t.Fatalf("cryptXRC4_128.String() = %q, want xRC4-128", s)
	}
	if s := cryptXRC4_40.String(); s != "xRC4-40" {
		t.Fatalf("cryptXRC4_40.String() = %q, want xRC4-40", s)
	}
}

func TestAuthHashFuncSelection(t *testing.T) {
	cases := []struct {
		alg  authAlgorithm
		want reflect.Value
	}{
		{authRakpHmacSHA1, reflect.ValueOf(sha1.New)},
		{authRakpHmacMD5, reflect.ValueOf(md5.New)},
		{authRakpHmacSHA256, reflect.ValueOf(sha256.New)},
	}
	for _, c := range cases {
		got := reflect.ValueOf(authHashFunc(c.alg))
		if got.Pointer() != c.want.Pointer() {
			t.Fatalf("authHashFunc(%v) did not select the expected hash constructor", c.alg)
		}
	}
}

func TestIntegrityTrailerSizes(t *testing.T) {
	cases := map[integrityAlgorithm]int{
		integrityNone:           0,
		integrityHmacSHA1_96:    12,
		integrityHmacMD5_128:    16,
		integrityMD5_128:        16,
		integrityHmacSHA256_128: 16,
	}
	for alg, want := range cases {
		if got := integrityTrailerSize(alg); got != want {
			t.Fatalf("integrityTrailerSize(%v) = %d, want %d", alg, got, want)
		}
	}
}

// TestRAKP2ValidateAuthCodeAcrossCipherSuites exercises ValidateAuthCode's
// HMAC dispatch for every cipher suite, not just the SHA1 subset the
// teacher originally supported.
func TestRAKP2ValidateAuthCodeAcrossCipherSuites(t *testing.T) {
	r1 := &rakpMessage1{
		ManagedID:      0x01020304,
		PrivilegeLevel: PrivilegeAdministrator,
		Username:       "admin",
	}
	copy(r1.ConsoleRand[:], bytesOf(0x11, 16))

	for cid := range cipherSuiteIDs {
		args := &Arguments{CipherSuiteID: uint(cid), Password: "secret"}

		r2 := &rakpMessage2{ConsoleID: 0x0a0b0c0d}
		copy(r2.ManagedRand[:], bytesOf(0x22, 16))
		copy(r2.ManagedGUID[:], bytesOf(0x33, 16))

		if !requiredAuthentication(args.CipherSuiteID) {
			if err := r2.ValidateAuthCode(args, r1); err != nil {
				t.Fatalf("cid %d: unauthenticated ValidateAuthCode returned error: %v", cid, err)
			}
			continue
		}

		key := make([]byte, passwordMaxLengthV2_0)
		copy(key, args.Password)

		data := make([]byte, 58+len(r1.Username))
		binary.LittleEndian.PutUint32(data, r2.ConsoleID)
		binary.LittleEndian.PutUint32(data[4:], r1.ManagedID)
		copy(data[8:], r1.ConsoleRand[:])
		copy(data[24:], r2.ManagedRand[:])
		copy(data[40:], r2.ManagedGUID[:])
		data[56] = r1.RequestedRole()
		data[57] = byte(len(r1.Username))
		copy(data[58:], r1.Username)

		mac := hmac.New(authHashFunc(cipherSuiteIDs[cid].Auth), key)
		mac.Write(data)
		r2.KeyExchangeAuthCode = mac.Sum(nil)

		if err := r2.ValidateAuthCode(args, r1); err != nil {
			t.Fatalf("cid %d: ValidateAuthCode failed: %v", cid, err)
		}
	}
}
