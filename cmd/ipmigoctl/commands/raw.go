package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tatsushid/ipmigo"
)

func parseRawByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
	if err != nil {
		return 0, &ipmigo.ArgumentError{Value: s, Message: "expected a hex byte"}
	}
	return byte(v), nil
}

var rawCmd = &cobra.Command{
	Use:   "raw NETFN CMD [DATA...]",
	Short: "Send a raw request, hex bytes starting with NetFn then command",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bytes := make([]byte, 0, len(args))
		for _, a := range args {
			b, err := parseRawByte(a)
			if err != nil {
				return err
			}
			bytes = append(bytes, b)
		}

		fn := ipmigo.NewNetFnRsLUN(ipmigo.NetFn(bytes[0]), 0)
		code := bytes[1]
		input := bytes[2:]

		c, err := newClient()
		if err != nil {
			return err
		}
		defer closeClient(c)

		raw := ipmigo.NewRawCommand("Raw", code, fn, input)
		if err := c.Execute(raw); err != nil {
			var ce *ipmigo.CommandError
			if errors.As(err, &ce) {
				fmt.Printf("completion code: %s (0x%02x)\n", ce.CompletionCode, uint8(ce.CompletionCode))
				return nil
			}
			return err
		}

		fmt.Printf("netfn %#02x cmd %#02x: %s\n", uint8(fn.NetFn()), code, hex.EncodeToString(raw.Output()))
		return nil
	},
}
