package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tatsushid/ipmigo"
)

// selClearPollLimit bounds how many times we poll an asynchronous erase
// before giving up; real BMCs complete within a handful of polls.
const selClearPollLimit = 30

var selCmd = &cobra.Command{
	Use:   "sel",
	Short: "Inspect or clear the System Event Log",
}

var selListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all SEL entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)

		info := &ipmigo.GetSELInfoCommand{}
		if err := c.Execute(info); err != nil {
			return err
		}
		if info.Entries == 0 {
			fmt.Println("SEL is empty")
			return nil
		}

		records, _, err := ipmigo.SELGetEntries(c, 0, int(info.Entries))
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Println(r)
		}
		return nil
	},
}

var selClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the System Event Log",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)

		rsv := &ipmigo.ReserveSELCommand{}
		if err := c.Execute(rsv); err != nil {
			return err
		}

		start := &ipmigo.ClearSELCommand{ReservationID: rsv.ReservationID, InitiateErase: true}
		if err := c.Execute(start); err != nil {
			return err
		}
		if start.Completed {
			fmt.Println("SEL cleared")
			return nil
		}

		for i := 0; i < selClearPollLimit; i++ {
			time.Sleep(100 * time.Millisecond)
			poll := &ipmigo.ClearSELCommand{ReservationID: rsv.ReservationID}
			if err := c.Execute(poll); err != nil {
				return err
			}
			if poll.Completed {
				fmt.Println("SEL cleared")
				return nil
			}
			log.Debugf("SEL erase still in progress")
		}
		return &ipmigo.MessageError{Message: "SEL erase did not complete in time"}
	},
}

func init() {
	selCmd.AddCommand(selListCmd)
	selCmd.AddCommand(selClearCmd)
}
