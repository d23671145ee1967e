// Command ipmigoctl is a thin CLI front end over the ipmigo client library.
package main

import (
	"fmt"
	"os"

	"github.com/tatsushid/ipmigo/cmd/ipmigoctl/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return commands.ExitCodeFor(err)
	}
	return 0
}
