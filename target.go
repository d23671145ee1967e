package ipmigo

// TargetAddress selects where a Request is routed (Section 3 data model).
// The zero value is Bmc(0): the local BMC, LUN 0.
type TargetAddress struct {
	bridged bool
	address uint8
	channel uint8
	lun     uint8
}

// Bmc routes a request to the local BMC on the given LUN.
func Bmc(lun uint8) TargetAddress {
	return TargetAddress{lun: lun & 0x3}
}

// BmcOrIpmb routes a request via IPMB bridging to a satellite controller
// at address on the given channel and LUN.
func BmcOrIpmb(address, channel, lun uint8) TargetAddress {
	return TargetAddress{bridged: true, address: address, channel: channel & 0x0f, lun: lun & 0x3}
}

// IsBridged reports whether the target requires Send/Get Message bridging.
func (t TargetAddress) IsBridged() bool { return t.bridged }
