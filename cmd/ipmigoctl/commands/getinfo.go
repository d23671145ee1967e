package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tatsushid/ipmigo"
)

var getInfoCmd = &cobra.Command{
	Use:   "get-info",
	Short: "Print device ID, SEL info and SEL allocation info",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)

		id := &ipmigo.GetDeviceIDCommand{}
		if err := c.Execute(id); err != nil {
			return err
		}
		fmt.Println(id)

		info := &ipmigo.GetSELInfoCommand{}
		if err := c.Execute(info); err != nil {
			return err
		}
		fmt.Println(info)

		if info.SupportAllocInfo {
			alloc := &ipmigo.GetSELAllocationInfoCommand{}
			if err := c.Execute(alloc); err != nil {
				return err
			}
			fmt.Println(alloc)
		} else {
			log.Debugf("BMC does not support SEL allocation info")
		}

		return nil
	},
}
