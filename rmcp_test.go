package ipmigo

import "testing"

func TestRMCPHeaderRoundTrip(t *testing.T) {
	h := newRMCPHeaderForIPMI()
	buf, err := h.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(buf) != rmcpHeaderSize {
		t.Fatalf("Marshal len = %d, want %d", len(buf), rmcpHeaderSize)
	}

	got := &rmcpHeader{}
	rest, err := got.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("Unmarshal leftover = %d bytes, want 0", len(rest))
	}
	if *got != *h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestRMCPHeaderUnmarshalShort(t *testing.T) {
	h := &rmcpHeader{}
	if _, err := h.Unmarshal([]byte{0x06, 0x00}); err == nil {
		t.Fatal("Unmarshal with short buffer should fail")
	}
}

func TestRMCPClassString(t *testing.T) {
	c := rmcpClass(rmcpClassIPMI)
	if s := c.String(); s != "Normal IPMI" {
		t.Fatalf("rmcpClassIPMI.String() = %q", s)
	}
	if s := (c | 0x80).String(); s != "ACK IPMI" {
		t.Fatalf("ACK variant String() = %q", s)
	}
}
