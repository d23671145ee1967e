package ipmigo

import (
	"bytes"
	"testing"
)

// fakeEchoSession stands in for a transport: it records the request it
// was asked to execute and hands back canned response bytes, the way
// the raw CLI subcommand round-trips a request through a real BMC.
type fakeEchoSession struct {
	gotNetFn NetFn
	gotCode  uint8
	gotInput []byte
	response []byte
}

func (f *fakeEchoSession) Ping() error  { return nil }
func (f *fakeEchoSession) Open() error  { return nil }
func (f *fakeEchoSession) Close() error { return nil }

func (f *fakeEchoSession) ExecuteTo(TargetAddress, Command) error {
	return ErrNotImplemented
}

func (f *fakeEchoSession) Execute(cmd Command) error {
	raw, ok := cmd.(*RawCommand)
	if !ok {
		return &MessageError{Message: "unexpected command in fake echo session"}
	}
	f.gotNetFn = raw.NetFnRsLUN().NetFn()
	f.gotCode = raw.Code()
	f.gotInput = append([]byte(nil), raw.Input()...)
	_, err := raw.Unmarshal(f.response)
	return err
}

func TestRawCommandRoundTripsNetFnCodeAndData(t *testing.T) {
	fn := NewNetFnRsLUN(NetFnAppReq, 0)
	input := []byte{0x01, 0x02, 0x03}

	fake := &fakeEchoSession{response: []byte{0xaa, 0xbb}}
	c := &Client{session: fake, args: &Arguments{}}

	raw := NewRawCommand("Raw", 0x01, fn, input)
	if err := c.Execute(raw); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if fake.gotNetFn != NetFnAppReq {
		t.Fatalf("NetFn seen by transport = %v, want %v", fake.gotNetFn, NetFnAppReq)
	}
	if fake.gotCode != 0x01 {
		t.Fatalf("Code seen by transport = %#02x, want 0x01", fake.gotCode)
	}
	if !bytes.Equal(fake.gotInput, input) {
		t.Fatalf("Input seen by transport = % x, want % x", fake.gotInput, input)
	}
	if !bytes.Equal(raw.Output(), []byte{0xaa, 0xbb}) {
		t.Fatalf("Output() = % x, want aa bb", raw.Output())
	}
}
