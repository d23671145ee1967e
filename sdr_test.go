package ipmigo

import "testing"

// fakeSDRSession answers the SDR repository commands needed to walk a
// repository of a fixed size, without a real BMC on the other end.
type fakeSDRSession struct {
	order []uint16
}

func newFakeSDRSession(n int) *fakeSDRSession {
	order := make([]uint16, n)
	for i := range order {
		order[i] = uint16(i + 1)
	}
	return &fakeSDRSession{order: order}
}

func (f *fakeSDRSession) Ping() error  { return nil }
func (f *fakeSDRSession) Open() error  { return nil }
func (f *fakeSDRSession) Close() error { return nil }

func (f *fakeSDRSession) ExecuteTo(TargetAddress, Command) error {
	return ErrNotImplemented
}

func (f *fakeSDRSession) indexFor(id uint16) int {
	if id == sdrFirstID {
		return 0
	}
	for i, v := range f.order {
		if v == id {
			return i
		}
	}
	return -1
}

func (f *fakeSDRSession) Execute(cmd Command) error {
	switch c := cmd.(type) {
	case *GetSDRRepositoryInfoCommand:
		c.SDRVersion = 0x51
		c.RecordCount = uint16(len(f.order))
	case *ReserveSDRRepositoryCommand:
		c.ReservationID = 1
	case *GetSDRCommand:
		if c.RecordOffset != 0 {
			c.RecordData = []byte{}
			return nil
		}
		idx := f.indexFor(c.RecordID)
		if idx < 0 {
			return &MessageError{Message: "unknown record id"}
		}
		id := f.order[idx]
		next := sdrLastID
		if idx+1 < len(f.order) {
			next = f.order[idx+1]
		}
		c.NextRecordID = next
		c.RecordData = []byte{byte(id), byte(id >> 8), 0x51, byte(SDRTypeOEM), 0x00}
	default:
		return &MessageError{Message: "unexpected command in fake SDR session"}
	}
	return nil
}

func TestSDRGetAllRecordsRepoTerminates(t *testing.T) {
	const n = 5
	c := &Client{session: newFakeSDRSession(n), args: &Arguments{}}

	records, err := SDRGetAllRecordsRepo(c)
	if err != nil {
		t.Fatalf("SDRGetAllRecordsRepo: %v", err)
	}
	if len(records) != n {
		t.Fatalf("got %d records, want %d", len(records), n)
	}
	for i, r := range records {
		if got := r.ID(); got != uint16(i+1) {
			t.Fatalf("record %d: ID() = %d, want %d", i, got, i+1)
		}
	}
}

func TestSDRGetRecordsRepoFilter(t *testing.T) {
	const n = 4
	c := &Client{session: newFakeSDRSession(n), args: &Arguments{}}

	records, err := SDRGetRecordsRepo(c, func(id uint16, t SDRType) bool {
		return id%2 == 0
	})
	if err != nil {
		t.Fatalf("SDRGetRecordsRepo: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d filtered records, want 2", len(records))
	}
}
