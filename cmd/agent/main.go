// Binary agent initializes the devnet trading agent and runs one operation against it.
package main

import (
	"os"

	"solagent-go/internal/cli"
)

func main() {
	os.Exit(cli.NewRunner().Run(os.Args[1:]))
}
