package ipmigo

import (
	"errors"
	"testing"
	"time"
)

func TestKCSDeviceTransportStubReturnsNotImplemented(t *testing.T) {
	tr := NewKCSDeviceTransport("/dev/ipmi0")

	if err := tr.Send(Bmc(0), NetFnAppReq, 0x01, nil); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("Send err = %v, want ErrNotImplemented", err)
	}

	_, _, _, _, err := tr.Recv(time.Second)
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("Recv err = %v, want ErrNotImplemented", err)
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
