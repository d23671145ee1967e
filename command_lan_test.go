package ipmigo

import (
	"bytes"
	"net"
	"testing"
)

// simulateLANGet marshals a Set command and feeds its request data
// back through a Get command's response layout, the way a BMC would
// echo a parameter back after storing it.
func simulateLANGet(set *SetLANConfigParamCommand) (*GetLANConfigParamCommand, error) {
	req, err := set.Marshal()
	if err != nil {
		return nil, err
	}
	data := req[2:] // strip ChannelNumber/Parameter, what Get's Data would hold

	get := &GetLANConfigParamCommand{ChannelNumber: set.ChannelNumber, Parameter: set.Parameter}
	resp := append([]byte{0x11}, data...) // revision byte + parameter data
	if _, err := get.Unmarshal(resp); err != nil {
		return nil, err
	}
	return get, nil
}

func TestLANConfigIPAddressRoundTrip(t *testing.T) {
	ip := net.IPv4(192, 168, 1, 42)
	set := NewSetLANConfigIPAddress(1, ip)

	get, err := simulateLANGet(set)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	got, err := get.IPAddress()
	if err != nil {
		t.Fatalf("IPAddress: %v", err)
	}
	if !got.Equal(ip) {
		t.Fatalf("got %v, want %v", got, ip)
	}
}

func TestLANConfigSubnetMaskRoundTrip(t *testing.T) {
	mask := net.CIDRMask(24, 32)
	set := NewSetLANConfigSubnetMask(1, mask)

	get, err := simulateLANGet(set)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	got, err := get.IPAddress()
	if err != nil {
		t.Fatalf("IPAddress: %v", err)
	}
	if !bytes.Equal(got.To4(), net.IP(mask).To4()) {
		t.Fatalf("got %v, want %v", got, net.IP(mask))
	}
}

func TestLANConfigDefaultGatewayRoundTrip(t *testing.T) {
	gw := net.IPv4(192, 168, 1, 1)
	set := NewSetLANConfigDefaultGateway(3, gw)

	get, err := simulateLANGet(set)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if got := get.ChannelNumber; got != 3 {
		t.Fatalf("ChannelNumber = %d, want 3", got)
	}
	got, err := get.IPAddress()
	if err != nil {
		t.Fatalf("IPAddress: %v", err)
	}
	if !got.Equal(gw) {
		t.Fatalf("got %v, want %v", got, gw)
	}
}
