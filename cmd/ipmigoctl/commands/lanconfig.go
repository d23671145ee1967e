package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"github.com/tatsushid/ipmigo"
)

var lanConfigCmd = &cobra.Command{
	Use:   "lan-config",
	Short: "Read or write LAN Configuration Parameters",
}

var lanConfigGetCmd = &cobra.Command{
	Use:   "get CHANNEL",
	Short: "Print a channel's IP address, subnet mask, MAC address and default gateway",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := parseChannel(args[0])
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)

		for _, p := range []ipmigo.LANParameter{
			ipmigo.LANParamIPAddress,
			ipmigo.LANParamSubnetMask,
			ipmigo.LANParamDefaultGateway,
			ipmigo.LANParamMACAddress,
		} {
			get := &ipmigo.GetLANConfigParamCommand{ChannelNumber: channel, Parameter: p}
			if err := c.Execute(get); err != nil {
				return err
			}
			fmt.Printf("%-24s %s\n", p, describeLANParam(p, get.Data))
		}
		return nil
	},
}

func describeLANParam(p ipmigo.LANParameter, data []byte) string {
	switch p {
	case ipmigo.LANParamMACAddress, ipmigo.LANParamDefaultGatewayMAC:
		if len(data) >= 6 {
			return net.HardwareAddr(data[:6]).String()
		}
	case ipmigo.LANParamIPAddress, ipmigo.LANParamSubnetMask, ipmigo.LANParamDefaultGateway:
		if len(data) >= 4 {
			return net.IPv4(data[0], data[1], data[2], data[3]).String()
		}
	}
	return fmt.Sprintf("% x", data)
}

func parseChannel(s string) (uint8, error) {
	n, err := parseRawByte(s)
	if err != nil {
		return 0, &ipmigo.ArgumentError{Value: s, Message: "invalid channel number"}
	}
	return n, nil
}

var lanConfigSetCmd = &cobra.Command{
	Use:   "set CHANNEL PARAM VALUE",
	Short: "Set a LAN parameter: PARAM is ip, netmask or gateway",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := parseChannel(args[0])
		if err != nil {
			return err
		}
		ip := net.ParseIP(args[2])
		if ip == nil {
			return &ipmigo.ArgumentError{Value: args[2], Message: "expected an IPv4 address"}
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)

		var set *ipmigo.SetLANConfigParamCommand
		switch args[1] {
		case "ip":
			set = ipmigo.NewSetLANConfigIPAddress(channel, ip)
		case "netmask":
			set = ipmigo.NewSetLANConfigSubnetMask(channel, net.IPMask(ip.To4()))
		case "gateway":
			set = ipmigo.NewSetLANConfigDefaultGateway(channel, ip)
		default:
			return &ipmigo.ArgumentError{Value: args[1], Message: "expected ip, netmask or gateway"}
		}

		if err := c.Execute(set); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	lanConfigCmd.AddCommand(lanConfigGetCmd)
	lanConfigCmd.AddCommand(lanConfigSetCmd)
}
