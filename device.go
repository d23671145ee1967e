package ipmigo

import (
	"errors"
	"time"
)

// ErrNotImplemented is returned by transports that expose an operation's
// shape without a working implementation, such as the kernel device
// transport stub below.
var ErrNotImplemented = errors.New("ipmigo: not implemented")

// DeviceTransport abstracts a host-local IPMI transport, such as a
// character device (/dev/ipmi0, /dev/ipmi/0, /dev/ipmidev/0). The
// session layer depends only on this interface; it never assumes a
// specific OS facility. Grounded on the OpenIPMI ioctl send/recv split
// used by in-tree kernel driver clients.
type DeviceTransport interface {
	// Send queues a request addressed to target on the given network
	// function and command, with the given request-data payload.
	Send(target TargetAddress, netFn NetFn, cmd uint8, payload []byte) error

	// Recv blocks for up to timeout for the next response, returning its
	// network function, command, completion code and response data.
	Recv(timeout time.Duration) (netFn NetFn, cmd uint8, cc CompletionCode, payload []byte, err error)

	// Close releases the underlying device handle.
	Close() error
}

// kcsDeviceTransport is an unimplemented stub for the Linux OpenIPMI
// character device. Wiring the real ioctl/syscall plumbing is outside
// this library's scope (spec Non-goals: in-band KCS/BT/SSIF driver
// implementation); callers needing an in-band transport should provide
// their own DeviceTransport.
type kcsDeviceTransport struct {
	path string
}

// NewKCSDeviceTransport returns a DeviceTransport stub bound to the given
// character device path. Its Send and Recv methods always return
// ErrNotImplemented; Close returns nil.
func NewKCSDeviceTransport(path string) DeviceTransport {
	return &kcsDeviceTransport{path: path}
}

func (k *kcsDeviceTransport) Send(TargetAddress, NetFn, uint8, []byte) error {
	return ErrNotImplemented
}

func (k *kcsDeviceTransport) Recv(time.Duration) (NetFn, uint8, CompletionCode, []byte, error) {
	return 0, 0, 0, nil, ErrNotImplemented
}

func (k *kcsDeviceTransport) Close() error { return nil }
