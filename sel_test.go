package ipmigo

import (
	"encoding/binary"
	"testing"
)

// fakeSELSession answers the SEL commands needed to walk a log of a
// fixed size, without a real BMC on the other end.
type fakeSELSession struct {
	order []uint16
}

func newFakeSELSession(n int) *fakeSELSession {
	order := make([]uint16, n)
	for i := range order {
		order[i] = uint16(i + 1)
	}
	return &fakeSELSession{order: order}
}

func (f *fakeSELSession) Ping() error  { return nil }
func (f *fakeSELSession) Open() error  { return nil }
func (f *fakeSELSession) Close() error { return nil }

func (f *fakeSELSession) ExecuteTo(TargetAddress, Command) error {
	return ErrNotImplemented
}

func (f *fakeSELSession) indexFor(id uint16) int {
	if id == selFirstID {
		return 0
	}
	for i, v := range f.order {
		if v == id {
			return i
		}
	}
	return -1
}

func (f *fakeSELSession) Execute(cmd Command) error {
	switch c := cmd.(type) {
	case *GetSELInfoCommand:
		c.SELVersion = 0x51
		c.Entries = uint16(len(f.order))
	case *ReserveSELCommand:
		c.ReservationID = 1
	case *GetSELEntryCommand:
		idx := f.indexFor(c.RecordID)
		if idx < 0 {
			return &MessageError{Message: "unknown SEL record id"}
		}
		id := f.order[idx]
		next := selLastID
		if idx+1 < len(f.order) {
			next = f.order[idx+1]
		}
		c.NextRecordID = next

		buf := make([]byte, selRecordSize)
		binary.LittleEndian.PutUint16(buf, id)
		// RecordType 0x02: system event record, always timestamped, non-OEM
		buf[2] = 0x02
		c.RecordData = buf
	default:
		return &MessageError{Message: "unexpected command in fake SEL session"}
	}
	return nil
}

func TestSELGetEntriesReturnsAllInOrder(t *testing.T) {
	const n = 6
	c := &Client{session: newFakeSELSession(n), args: &Arguments{}}

	records, total, err := SELGetEntries(c, 0, n)
	if err != nil {
		t.Fatalf("SELGetEntries: %v", err)
	}
	if total != n {
		t.Fatalf("total = %d, want %d", total, n)
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

func TestSELGetEntriesOffsetAndLimit(t *testing.T) {
	const n = 10
	c := &Client{session: newFakeSELSession(n), args: &Arguments{}}

	records, total, err := SELGetEntries(c, 3, 2)
	if err != nil {
		t.Fatalf("SELGetEntries: %v", err)
	}
	if total != n {
		t.Fatalf("total = %d, want %d", total, n)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if got := records[0].ID(); got != 4 {
		t.Fatalf("records[0].ID() = %d, want 4", got)
	}
	if got := records[1].ID(); got != 5 {
		t.Fatalf("records[1].ID() = %d, want 5", got)
	}
}

func TestSELGetEntriesEmptyLog(t *testing.T) {
	c := &Client{session: newFakeSELSession(0), args: &Arguments{}}

	records, total, err := SELGetEntries(c, 0, 10)
	if err != nil {
		t.Fatalf("SELGetEntries: %v", err)
	}
	if total != 0 || len(records) != 0 {
		t.Fatalf("got total=%d records=%d, want 0/0", total, len(records))
	}
}
