package ipmigo

import "testing"

func TestSensorTypeStringCoversFullRange(t *testing.T) {
	for x := 0; x < 0x100; x++ {
		st := SensorType(x)
		if s := st.String(); s == "" {
			t.Fatalf("SensorType(%d).String() returned empty string", x)
		}
	}
}

func TestSensorTypeReservedAndOEMRanges(t *testing.T) {
	reserved := SensorType(len(sensorTypeDescriptions))
	if got := reserved.String(); got == "" {
		t.Fatalf("reserved SensorType(%d).String() empty", reserved)
	}

	oem := SensorType(0xc5)
	if got := oem.String(); got == "" {
		t.Fatalf("OEM SensorType(%d).String() empty", oem)
	}
}

func TestThresholdStatusFromRaw(t *testing.T) {
	cases := map[uint8]ThresholdStatus{
		0x00: ThresholdStatusOK,
	}
	for raw, want := range cases {
		if got := NewThresholdStatus(raw); got != want {
			t.Fatalf("NewThresholdStatus(%#02x) = %v, want %v", raw, got, want)
		}
	}
}
