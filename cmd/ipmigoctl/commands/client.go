package commands

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
	"github.com/tatsushid/ipmigo"
)

// ExitCodeFor classifies an error for the process exit code: argument
// errors are the caller's fault (2), everything else surfaced by the
// session or transport layer is 1.
func ExitCodeFor(err error) int {
	var argErr *ipmigo.ArgumentError
	if errors.As(err, &argErr) {
		return 2
	}
	return 1
}

func parsePrivilege(s string) (ipmigo.PrivilegeLevel, error) {
	switch strings.ToLower(s) {
	case "callback":
		return ipmigo.PrivilegeCallback, nil
	case "user":
		return ipmigo.PrivilegeUser, nil
	case "operator":
		return ipmigo.PrivilegeOperator, nil
	case "administrator", "admin":
		return ipmigo.PrivilegeAdministrator, nil
	default:
		return 0, &ipmigo.ArgumentError{Value: s, Message: "unknown privilege level"}
	}
}

func parseVersion(s string) (ipmigo.Version, error) {
	switch s {
	case "1.5":
		return ipmigo.V1_5, nil
	case "2.0", "":
		return ipmigo.V2_0, nil
	default:
		return 0, &ipmigo.ArgumentError{Value: s, Message: "unknown IPMI version"}
	}
}

func buildArguments() (ipmigo.Arguments, error) {
	var args ipmigo.Arguments

	priv, err := parsePrivilege(viper.GetString("privilege"))
	if err != nil {
		return args, err
	}
	ver, err := parseVersion(viper.GetString("version"))
	if err != nil {
		return args, err
	}

	args.Version = ver
	args.Username = viper.GetString("user")
	args.Password = viper.GetString("password")
	args.PrivilegeLevel = priv
	args.CipherSuiteID = viper.GetUint("cipher-suite")
	args.Retries = viper.GetUint("retries")
	args.Logger = log

	if t := viper.GetDuration("timeout"); t > 0 {
		args.Timeout = t
	}

	switch viper.GetString("transport") {
	case "kcs":
		args.Transport = ipmigo.NewKCSDeviceTransport(viper.GetString("device"))
	case "rmcp", "":
		addr := viper.GetString("address")
		if addr == "" {
			return args, &ipmigo.ArgumentError{Value: addr, Message: "--address is required for the rmcp transport"}
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			addr = net.JoinHostPort(addr, fmt.Sprintf("%d", viper.GetUint("port")))
		}
		args.Address = addr
	default:
		return args, &ipmigo.ArgumentError{Value: viper.GetString("transport"), Message: "unknown transport"}
	}

	return args, nil
}

func newClient() (*ipmigo.Client, error) {
	args, err := buildArguments()
	if err != nil {
		return nil, err
	}
	c, err := ipmigo.NewClient(args)
	if err != nil {
		return nil, err
	}
	if err := c.Open(); err != nil {
		return nil, err
	}
	return c, nil
}

func closeClient(c *ipmigo.Client) {
	if err := c.Close(); err != nil {
		log.Warnf("closing session: %v", err)
	}
}
