package ipmigo

import (
	"encoding/binary"
)

// Get SEL Info (Section 31.2)
type GetSELInfoCommand struct {
	// Response Data
	SELVersion        uint8
	Entries           uint16
	FreeSpace         uint16
	LastAddTime       uint32
	LastDelTime       uint32
	SupportAllocInfo  bool
	SupportReserve    bool
	SupportPartialAdd bool
	SupportDelete     bool
	Overflow          bool
}

func (c *GetSELInfoCommand) Name() string { return "Get SEL Info" }
func (c *GetSELInfoCommand) Code() uint8  { return 0x40 }

func (c *GetSELInfoCommand) NetFnRsLUN() NetFnRsLUN {
	return NewNetFnRsLUN(NetFnStorageReq, 0)
}

func (c *GetSELInfoCommand) String() string           { return cmdToJSON(c) }
func (c *GetSELInfoCommand) Marshal() ([]byte, error) { return []byte{}, nil }

func (c *GetSELInfoCommand) Unmarshal(buf []byte) ([]byte, error) {
	if err := cmdValidateLength(c, buf, 14); err != nil {
		return nil, err
	}

	c.SELVersion = buf[0]
	c.Entries = binary.LittleEndian.Uint16(buf[1:3])
	c.FreeSpace = binary.LittleEndian.Uint16(buf[3:5])
	c.LastAddTime = binary.LittleEndian.Uint32(buf[5:9])
	c.LastDelTime = binary.LittleEndian.Uint32(buf[9:13])
	c.SupportAllocInfo = buf[13]&0x01 != 0
	c.SupportReserve = buf[13]&0x02 != 0
	c.SupportPartialAdd = buf[13]&0x04 != 0
	c.SupportDelete = buf[13]&0x08 != 0
	c.Overflow = buf[13]&0x80 != 0

	return buf[14:], nil
}

// Get SEL Allocation Info Command (Section 31.3)
type GetSELAllocationInfoCommand struct {
	// Response Data
	NumPossibleAllocUnits uint16
	AllocUnitSize         uint16
	NumFreeAllocUnits     uint16
	LargestFreeBlock      uint16
	MaxRecordSize         uint8
}

func (c *GetSELAllocationInfoCommand) Name() string { return "Get SEL Allocation Info" }
func (c *GetSELAllocationInfoCommand) Code() uint8  { return 0x41 }

func (c *GetSELAllocationInfoCommand) NetFnRsLUN() NetFnRsLUN {
	return NewNetFnRsLUN(NetFnStorageReq, 0)
}

func (c *GetSELAllocationInfoCommand) String() string           { return cmdToJSON(c) }
func (c *GetSELAllocationInfoCommand) Marshal() ([]byte, error) { return []byte{}, nil }

func (c *GetSELAllocationInfoCommand) Unmarshal(buf []byte) ([]byte, error) {
	if err := cmdValidateLength(c, buf, 9); err != nil {
		return nil, err
	}
	c.NumPossibleAllocUnits = binary.LittleEndian.Uint16(buf[0:2])
	c.AllocUnitSize = binary.LittleEndian.Uint16(buf[2:4])
	c.NumFreeAllocUnits = binary.LittleEndian.Uint16(buf[4:6])
	c.LargestFreeBlock = binary.LittleEndian.Uint16(buf[6:8])
	c.MaxRecordSize = buf[8]
	return buf[9:], nil
}

// Clear SEL Command (Section 31.9). The three Clr bytes are fixed ASCII
// "CLR" per spec; InitiateErase must be set on the first call and left
// false on subsequent polls of an asynchronous erase (get erasure status).
type ClearSELCommand struct {
	// Request Data
	ReservationID uint16
	InitiateErase bool // false polls for progress instead of starting a new erase

	// Response Data
	Completed bool
}

func (c *ClearSELCommand) Name() string { return "Clear SEL" }
func (c *ClearSELCommand) Code() uint8  { return 0x47 }

func (c *ClearSELCommand) NetFnRsLUN() NetFnRsLUN {
	return NewNetFnRsLUN(NetFnStorageReq, 0)
}

func (c *ClearSELCommand) String() string { return cmdToJSON(c) }

func (c *ClearSELCommand) Marshal() ([]byte, error) {
	action := byte(0x00)
	if c.InitiateErase {
		action = 0xaa
	}
	return []byte{
		byte(c.ReservationID), byte(c.ReservationID >> 8),
		'C', 'L', 'R', action,
	}, nil
}

func (c *ClearSELCommand) Unmarshal(buf []byte) ([]byte, error) {
	if err := cmdValidateLength(c, buf, 1); err != nil {
		return nil, err
	}
	c.Completed = buf[0]&0x0f == 0x01
	return buf[1:], nil
}

func newClearSELCommand(reservation uint16, initiate bool) *ClearSELCommand {
	return &ClearSELCommand{ReservationID: reservation, InitiateErase: initiate}
}

// Reserve SEL Command (Section 31.4)
type ReserveSELCommand struct {
	// Response Data
	ReservationID uint16
}

func (c *ReserveSELCommand) Name() string { return "Reserve SEL" }
func (c *ReserveSELCommand) Code() uint8  { return 0x42 }

func (c *ReserveSELCommand) NetFnRsLUN() NetFnRsLUN {
	return NewNetFnRsLUN(NetFnStorageReq, 0)
}

func (c *ReserveSELCommand) String() string           { return cmdToJSON(c) }
func (c *ReserveSELCommand) Marshal() ([]byte, error) { return []byte{}, nil }

func (c *ReserveSELCommand) Unmarshal(buf []byte) ([]byte, error) {
	if err := cmdValidateLength(c, buf, 2); err != nil {
		return nil, err
	}
	c.ReservationID = binary.LittleEndian.Uint16(buf)
	return buf[2:], nil
}

// Get SEL Entry Command (Section 31.5)
type GetSELEntryCommand struct {
	// Request Data
	ReservationID uint16
	RecordID      uint16
	RecordOffset  uint8
	ReadBytes     uint8

	// Response Data
	NextRecordID uint16
	RecordData   []byte
}

func (c *GetSELEntryCommand) Name() string           { return "Get SEL Entry" }
func (c *GetSELEntryCommand) Code() uint8            { return 0x43 }
func (c *GetSELEntryCommand) NetFnRsLUN() NetFnRsLUN { return NewNetFnRsLUN(NetFnStorageReq, 0) }
func (c *GetSELEntryCommand) String() string         { return cmdToJSON(c) }

func (c *GetSELEntryCommand) Marshal() ([]byte, error) {
	return []byte{byte(c.ReservationID), byte(c.ReservationID >> 8), byte(c.RecordID), byte(c.RecordID >> 8),
		byte(c.RecordOffset), byte(c.ReadBytes)}, nil
}

func (c *GetSELEntryCommand) Unmarshal(buf []byte) ([]byte, error) {
	if err := cmdValidateLength(c, buf, 2); err != nil {
		return nil, err
	}

	c.NextRecordID = binary.LittleEndian.Uint16(buf)
	buf = buf[2:]
	if l := len(buf); l <= int(c.ReadBytes) {
		c.RecordData = make([]byte, l)
		copy(c.RecordData, buf)
		return nil, nil
	} else {
		c.RecordData = make([]byte, c.ReadBytes)
		copy(c.RecordData, buf)
		return buf[c.ReadBytes:], nil
	}
}
