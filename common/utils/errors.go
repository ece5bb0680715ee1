package utils

import (
	"fmt"
	"log"

	"github.com/ttacon/chalk"
)

// Assert panics on a broken internal invariant; it never guards user input.
func Assert(ok bool, msg string) {
	if !ok {
		fmt.Print(chalk.Red)
		log.Print(msg, chalk.Reset)
		log.Panic(msg)
	}
}
