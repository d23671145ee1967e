package ipmigo

import (
	"fmt"
	"time"
)

type Version int

const (
	V1_5 Version = iota + 1
	V2_0
)

// Channel Privilege Levels. (Section 6.8)
type PrivilegeLevel uint8

const (
	PrivilegeCallback PrivilegeLevel = iota + 1
	PrivilegeUser
	PrivilegeOperator
	PrivilegeAdministrator
)

func (p PrivilegeLevel) String() string {
	switch p {
	case PrivilegeCallback:
		return "CALLBACK"
	case PrivilegeUser:
		return "USER"
	case PrivilegeOperator:
		return "OPERATOR"
	case PrivilegeAdministrator:
		return "ADMINISTRATOR"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

const (
	// Maximum username length for RAKP (Section 13.20, ULENGTHm is 5 bits)
	userNameMaxLength = 16
	// Maximum password length for IPMI 2.0 RAKP HMAC keys
	passwordMaxLengthV2_0 = 20

	bmcSlaveAddress uint8 = 0x20
	remoteSWID      uint8 = 0x81

	// Number of bytes requested per SDR body chunk by default; some
	// BMCs cannot satisfy a full 32-byte read and the traversal backs off.
	defaultSDRReadingBytes uint8 = sdrDefaultReadBytes
)

// An argument for creating an IPMI Client
type Arguments struct {
	Version        Version        // IPMI version to use
	Network        string         // See net.Dial parameter (The default is `udp`)
	Address        string         // See net.Dial parameter
	Timeout        time.Duration  // Each connect/read-write timeout (The default is 5sec)
	Retries        uint           // Number of retries (The default is `0`)
	Username       string         // Remote server username
	Password       string         // Remote server password
	PrivilegeLevel PrivilegeLevel // Session privilege level (The default is `Administrator`)
	CipherSuiteID  uint           // ID of cipher suite, See Table 22-20 (The default is `0` which no auth and no encrypt)

	// Treat a discrete sensor that still carries unit/percentage bits as
	// an analog reading instead of forcing it to "discrete". Some BMCs
	// set these bits on discrete sensors; off by default to match the
	// strict reading of Section 43.
	Discretereading bool

	// Transport is used instead of RMCP+/UDP when set, e.g. a kernel
	// device. When nil, the client dials Network/Address over UDP.
	Transport DeviceTransport

	// Logger receives lifecycle events from the session layer. Defaults
	// to a no-op logger.
	Logger Logger
}

func (a *Arguments) setDefault() {
	if a.Version == 0 {
		a.Version = V2_0
	}
	if a.Network == "" {
		a.Network = "udp"
	}
	if a.Timeout == 0 {
		a.Timeout = 5 * time.Second
	}
	if a.PrivilegeLevel == 0 {
		a.PrivilegeLevel = PrivilegeAdministrator
	}
	if a.Logger == nil {
		a.Logger = nopLogger{}
	}
}

func (a *Arguments) validate() error {
	switch a.Version {
	case V2_0:
		if len(a.Password) > passwordMaxLengthV2_0 {
			return &ArgumentError{
				Value:   a.Password,
				Message: "Password is too long",
			}
		}
		if a.CipherSuiteID > uint(len(cipherSuiteIDs)-1) {
			return &ArgumentError{
				Value:   a.CipherSuiteID,
				Message: "Invalid Cipher Suite ID",
			}
		}
	case V1_5:
		// TODO Support v1.5 ?
		fallthrough
	default:
		return &ArgumentError{
			Value:   a.Version,
			Message: "Unsupported IPMI version",
		}
	}

	if a.PrivilegeLevel > PrivilegeAdministrator {
		return &ArgumentError{
			Value:   a.PrivilegeLevel,
			Message: "Invalid Privilege Level",
		}
	}

	if len(a.Username) > userNameMaxLength {
		return &ArgumentError{
			Value:   a.Username,
			Message: "Username is too long",
		}
	}

	return nil
}

// IPMI Client
type Client struct {
	session session
	args    *Arguments

	// Current chunk size used while paging through SDR bodies; backs
	// off when a BMC reports CompletionRequestDataFieldExceedEd.
	sdrReadingBytes uint8
}

func (c *Client) Ping() error               { return c.session.Ping() }
func (c *Client) Open() error               { return c.session.Open() }
func (c *Client) Close() error              { return c.session.Close() }
func (c *Client) Execute(cmd Command) error { return c.session.Execute(cmd) }

// ExecuteTo runs cmd against a specific TargetAddress, transparently
// bridging the request over Send Message/Get Message when target
// addresses a satellite controller on another channel.
func (c *Client) ExecuteTo(target TargetAddress, cmd Command) error {
	return c.session.ExecuteTo(target, cmd)
}

// Create an IPMI Client
func NewClient(args Arguments) (*Client, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	args.setDefault()

	var s session
	switch {
	case args.Transport != nil:
		s = newDeviceSession(&args)
	case args.Version == V1_5:
		s = newSessionV1_5(&args)
	case args.Version == V2_0:
		s = newSessionV2_0(&args)
	}
	return &Client{
		session:         s,
		args:            &args,
		sdrReadingBytes: defaultSDRReadingBytes,
	}, nil
}
