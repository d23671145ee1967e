package ipmigo

import "testing"

func TestBmcTargetNotBridged(t *testing.T) {
	tg := Bmc(2)
	if tg.IsBridged() {
		t.Fatal("Bmc() target should not be bridged")
	}
	if tg.lun != 2 {
		t.Fatalf("lun = %d, want 2", tg.lun)
	}
}

func TestBmcTargetLUNMasked(t *testing.T) {
	if tg := Bmc(0xff); tg.lun != 0x3 {
		t.Fatalf("lun = %d, want masked to 2 bits (3)", tg.lun)
	}
}

func TestBmcOrIpmbTargetBridged(t *testing.T) {
	tg := BmcOrIpmb(0x20, 7, 1)
	if !tg.IsBridged() {
		t.Fatal("BmcOrIpmb() target should be bridged")
	}
	if tg.address != 0x20 || tg.channel != 7 || tg.lun != 1 {
		t.Fatalf("got address=%#02x channel=%d lun=%d, want 0x20/7/1", tg.address, tg.channel, tg.lun)
	}
}

func TestBmcOrIpmbChannelAndLUNMasked(t *testing.T) {
	tg := BmcOrIpmb(0x20, 0xff, 0xff)
	if tg.channel != 0x0f {
		t.Fatalf("channel = %d, want masked to 4 bits (15)", tg.channel)
	}
	if tg.lun != 0x3 {
		t.Fatalf("lun = %d, want masked to 2 bits (3)", tg.lun)
	}
}

func TestTargetAddressZeroValueIsLocalBmc(t *testing.T) {
	var tg TargetAddress
	if tg.IsBridged() {
		t.Fatal("zero value TargetAddress should not be bridged")
	}
	if tg != (Bmc(0)) {
		t.Fatalf("zero value = %+v, want Bmc(0)", tg)
	}
}
