package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tatsushid/ipmigo"
)

type sensorID interface {
	SensorID() string
}

func printSensor(c *ipmigo.Client, sdr ipmigo.SDR, withReadings bool) {
	id, ok := sdr.(sensorID)
	if !ok {
		return
	}

	line := fmt.Sprintf("%-4d %-20s %s", sdr.ID(), id.SensorID(), sdr.Type())

	if withReadings {
		if full, ok := sdr.(*ipmigo.SDRFullSensor); ok {
			reading := &ipmigo.GetSensorReadingCommand{SensorNumber: full.SensorNumber}
			if err := c.Execute(reading); err != nil {
				line += fmt.Sprintf(" (reading error: %v)", err)
			} else if !reading.IsValid() {
				line += " (reading unavailable)"
			} else if full.IsAnalogReading() {
				value := full.ConvertSensorReading(reading.SensorReading)
				line += fmt.Sprintf(" = %.2f %s", value, full.UnitString())
			} else {
				line += fmt.Sprintf(" = %s", reading.ThresholdStatus())
			}
		}
	}

	fmt.Println(line)
}

func runSensors(c *ipmigo.Client, withReadings bool, types []ipmigo.SensorType) error {
	sdrs, err := ipmigo.SDRGetRecordsRepo(c, func(id uint16, t ipmigo.SDRType) bool {
		return t == ipmigo.SDRTypeFullSensor || t == ipmigo.SDRTypeCompactSensor
	})
	if err != nil {
		return err
	}

	for _, sdr := range sdrs {
		if len(types) > 0 {
			st, ok := sensorType(sdr)
			if !ok || !containsType(types, st) {
				continue
			}
		}
		printSensor(c, sdr, withReadings)
	}
	return nil
}

func sensorType(sdr ipmigo.SDR) (ipmigo.SensorType, bool) {
	switch r := sdr.(type) {
	case *ipmigo.SDRFullSensor:
		return r.SensorType, true
	case *ipmigo.SDRCompactSensor:
		return r.SensorType, true
	default:
		return 0, false
	}
}

func containsType(types []ipmigo.SensorType, t ipmigo.SensorType) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

// parseSensorType accepts either a numeric type code or its full
// description, compared case-insensitively (e.g. "temperature", "fan").
func parseSensorType(s string) (ipmigo.SensorType, error) {
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		return ipmigo.SensorType(n), nil
	}
	for i := 0; i < 0x100; i++ {
		t := ipmigo.SensorType(i)
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, &ipmigo.ArgumentError{Value: s, Message: "unknown sensor type"}
}

var withReadingsFlag bool

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "List sensor IDs, optionally with current readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)
		return runSensors(c, withReadingsFlag, nil)
	},
}

var sensorsOfTypeCmd = &cobra.Command{
	Use:   "sensors-of-type TYPE...",
	Short: "List sensor IDs restricted to the given sensor types",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types := make([]ipmigo.SensorType, 0, len(args))
		for _, a := range args {
			t, err := parseSensorType(a)
			if err != nil {
				return err
			}
			types = append(types, t)
		}

		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)
		return runSensors(c, withReadingsFlag, types)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{sensorsCmd, sensorsOfTypeCmd} {
		cmd.Flags().BoolVar(&withReadingsFlag, "readings", false, "fetch and print current sensor readings")
	}
}
