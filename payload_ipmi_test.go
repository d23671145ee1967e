package ipmigo

import "testing"

func TestChecksumZeroesOut(t *testing.T) {
	cases := [][]byte{
		{0x20, 0x18},
		{0x01, 0x02, 0x03, 0x04, 0x05},
		{0xff, 0xff},
		{0x00},
	}
	for _, b := range cases {
		sum := append(append([]byte(nil), b...), checksum(b))
		var total byte
		for _, x := range sum {
			total += x
		}
		if total != 0 {
			t.Fatalf("checksum(% x) = %#02x, total over [buf, checksum] = %#02x, want 0", b, checksum(b), total)
		}
	}
}

func TestNetFnRsLUNRoundTrip(t *testing.T) {
	for _, fn := range []NetFn{NetFnAppReq, NetFnStorageReq, NetFnChassisReq, NetFnTransportReq} {
		for lun := uint8(0); lun < 4; lun++ {
			n := NewNetFnRsLUN(fn, lun)
			if got := n.NetFn(); got != fn {
				t.Fatalf("NetFn() = %v, want %v", got, fn)
			}
			if got := n.RsLUN(); got != lun {
				t.Fatalf("RsLUN() = %d, want %d", got, lun)
			}
		}
	}
}
