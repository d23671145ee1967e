package ipmigo

import (
	"fmt"
	"net"
)

// LAN Configuration Parameter selector (Table 23-4)
type LANParameter uint8

const (
	LANParamSetInProgress       LANParameter = 0
	LANParamAuthTypeSupport     LANParameter = 1
	LANParamAuthTypeEnables     LANParameter = 2
	LANParamIPAddress           LANParameter = 3
	LANParamIPAddressSource     LANParameter = 4
	LANParamMACAddress          LANParameter = 5
	LANParamSubnetMask          LANParameter = 6
	LANParamIPHeaderParams      LANParameter = 7
	LANParamPrimaryRMCPPort     LANParameter = 8
	LANParamDefaultGateway      LANParameter = 12
	LANParamDefaultGatewayMAC   LANParameter = 13
	LANParamBackupGateway       LANParameter = 14
	LANParamBackupGatewayMAC    LANParameter = 15
	LANParamCommunityString     LANParameter = 16
	LANParamNumDestinations     LANParameter = 17
	LANParamCipherSuiteEntries  LANParameter = 22
	LANParamCipherSuitePrivLvls LANParameter = 24
)

func (p LANParameter) String() string {
	switch p {
	case LANParamSetInProgress:
		return "Set In Progress"
	case LANParamAuthTypeSupport:
		return "Authentication Type Support"
	case LANParamAuthTypeEnables:
		return "Authentication Type Enables"
	case LANParamIPAddress:
		return "IP Address"
	case LANParamIPAddressSource:
		return "IP Address Source"
	case LANParamMACAddress:
		return "MAC Address"
	case LANParamSubnetMask:
		return "Subnet Mask"
	case LANParamIPHeaderParams:
		return "IP Header Parameters"
	case LANParamPrimaryRMCPPort:
		return "Primary RMCP Port Number"
	case LANParamDefaultGateway:
		return "Default Gateway Address"
	case LANParamDefaultGatewayMAC:
		return "Default Gateway MAC Address"
	case LANParamBackupGateway:
		return "Backup Gateway Address"
	case LANParamBackupGatewayMAC:
		return "Backup Gateway MAC Address"
	case LANParamCommunityString:
		return "Community String"
	case LANParamNumDestinations:
		return "Number of Destinations"
	case LANParamCipherSuiteEntries:
		return "Cipher Suite Entry Support"
	case LANParamCipherSuitePrivLvls:
		return "Cipher Suite Privilege Levels"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(p))
	}
}

// Get LAN Configuration Parameters Command (Section 23.2)
type GetLANConfigParamCommand struct {
	// Request Data
	ChannelNumber uint8
	Parameter     LANParameter
	SetSelector   uint8
	BlockSelector uint8

	// Response Data
	Revision uint8
	Data     []byte
}

func (c *GetLANConfigParamCommand) Name() string { return "Get LAN Configuration Parameters" }
func (c *GetLANConfigParamCommand) Code() uint8   { return 0x02 }

func (c *GetLANConfigParamCommand) NetFnRsLUN() NetFnRsLUN {
	return NewNetFnRsLUN(NetFnTransportReq, 0)
}

func (c *GetLANConfigParamCommand) String() string { return cmdToJSON(c) }

func (c *GetLANConfigParamCommand) Marshal() ([]byte, error) {
	return []byte{
		c.ChannelNumber & 0x0f,
		byte(c.Parameter),
		c.SetSelector,
		c.BlockSelector,
	}, nil
}

func (c *GetLANConfigParamCommand) Unmarshal(buf []byte) ([]byte, error) {
	if err := cmdValidateLength(c, buf, 1); err != nil {
		return nil, err
	}
	c.Revision = buf[0]
	c.Data = append([]byte(nil), buf[1:]...)
	return nil, nil
}

// IPAddress decodes Data as a 4-byte IPv4 address (valid for the IP
// Address, Subnet Mask and Default Gateway Address parameters).
func (c *GetLANConfigParamCommand) IPAddress() (net.IP, error) {
	if len(c.Data) < 4 {
		return nil, &MessageError{Message: "LAN parameter data too short for an IPv4 address"}
	}
	return net.IPv4(c.Data[0], c.Data[1], c.Data[2], c.Data[3]), nil
}

// MACAddress decodes Data as a 6-byte hardware address (valid for the
// MAC Address and Default Gateway MAC Address parameters).
func (c *GetLANConfigParamCommand) MACAddress() (net.HardwareAddr, error) {
	if len(c.Data) < 6 {
		return nil, &MessageError{Message: "LAN parameter data too short for a MAC address"}
	}
	addr := make(net.HardwareAddr, 6)
	copy(addr, c.Data[:6])
	return addr, nil
}

// Set LAN Configuration Parameters Command (Section 23.1)
type SetLANConfigParamCommand struct {
	// Request Data
	ChannelNumber uint8
	Parameter     LANParameter
	Data          []byte
}

func (c *SetLANConfigParamCommand) Name() string { return "Set LAN Configuration Parameters" }
func (c *SetLANConfigParamCommand) Code() uint8   { return 0x01 }

func (c *SetLANConfigParamCommand) NetFnRsLUN() NetFnRsLUN {
	return NewNetFnRsLUN(NetFnTransportReq, 0)
}

func (c *SetLANConfigParamCommand) String() string { return cmdToJSON(c) }

func (c *SetLANConfigParamCommand) Marshal() ([]byte, error) {
	buf := make([]byte, 2+len(c.Data))
	buf[0] = c.ChannelNumber & 0x0f
	buf[1] = byte(c.Parameter)
	copy(buf[2:], c.Data)
	return buf, nil
}

func (c *SetLANConfigParamCommand) Unmarshal(buf []byte) ([]byte, error) {
	return buf, nil
}

func NewSetLANConfigIPAddress(channel uint8, ip net.IP) *SetLANConfigParamCommand {
	v4 := ip.To4()
	return &SetLANConfigParamCommand{ChannelNumber: channel, Parameter: LANParamIPAddress, Data: []byte(v4)}
}

func NewSetLANConfigSubnetMask(channel uint8, mask net.IPMask) *SetLANConfigParamCommand {
	return &SetLANConfigParamCommand{ChannelNumber: channel, Parameter: LANParamSubnetMask, Data: []byte(mask)}
}

func NewSetLANConfigDefaultGateway(channel uint8, ip net.IP) *SetLANConfigParamCommand {
	v4 := ip.To4()
	return &SetLANConfigParamCommand{ChannelNumber: channel, Parameter: LANParamDefaultGateway, Data: []byte(v4)}
}
