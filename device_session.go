package ipmigo

// deviceSession implements session on top of a host-local DeviceTransport
// (a character device such as /dev/ipmi0) instead of dialing RMCP+/UDP.
// It carries no session ID or sequence number of its own; the transport
// is expected to hand back the reply addressed to whatever request it
// was just given.
type deviceSession struct {
	args      *Arguments
	transport DeviceTransport
}

func newDeviceSession(args *Arguments) *deviceSession {
	return &deviceSession{args: args, transport: args.Transport}
}

func (s *deviceSession) Ping() error  { return nil }
func (s *deviceSession) Open() error  { return nil }
func (s *deviceSession) Close() error { return s.transport.Close() }

func (s *deviceSession) Execute(cmd Command) error {
	return s.ExecuteTo(Bmc(0), cmd)
}

func (s *deviceSession) ExecuteTo(target TargetAddress, cmd Command) error {
	if target.IsBridged() {
		return &MessageError{
			Message: "IPMB bridging is not supported over a host-local device transport",
		}
	}

	data, err := cmd.Marshal()
	if err != nil {
		return err
	}

	reqFn := cmd.NetFnRsLUN().NetFn()

	var (
		respFn   NetFn
		respCode uint8
		cc       CompletionCode
		payload  []byte
	)
	err = retry(int(s.args.Retries), func() error {
		if e := s.transport.Send(target, reqFn, cmd.Code(), data); e != nil {
			return e
		}
		var e error
		respFn, respCode, cc, payload, e = s.transport.Recv(s.args.Timeout)
		return e
	})
	if err != nil {
		return err
	}

	if respFn != reqFn+1 || respCode != cmd.Code() {
		return &FramingError{
			RequestNetFn:  reqFn,
			ResponseNetFn: respFn,
			RequestCode:   cmd.Code(),
			ResponseCode:  respCode,
		}
	}

	if cc != CompletionOK {
		return &CommandError{CompletionCode: cc, Command: cmd}
	}

	_, err = cmd.Unmarshal(payload)
	return err
}
