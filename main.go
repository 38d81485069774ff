// bam lists the locally configured apps and filters them as you type.
package main

import (
	"os"

	"bam/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
