package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/ttacon/chalk"
)

// ErrorChain lists the messages of err and of every cause below it, outermost
// first, each stripped of the text it inherits from its cause.
func ErrorChain(err error) []string {
	var res []string

	for current := err; current != nil; current = errors.Unwrap(current) {
		msg := current.Error()

		if cause := errors.Unwrap(current); cause != nil {
			msg = strings.TrimSuffix(msg, cause.Error())
			msg = strings.TrimSuffix(msg, ": ")
		}

		if msg == "" || (len(res) > 0 && res[len(res)-1] == msg) {
			continue
		}

		res = append(res, msg)
	}

	return res
}

func printChain(w io.Writer, err error) {
	for i, msg := range ErrorChain(err) {
		fmt.Fprintf(w, "%s└─ %s\n", strings.Repeat("   ", i), msg)
	}
}

func FailWith(err error) {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, chalk.Red.Color("=== ❌ an error occurred."))
	fmt.Fprintln(os.Stderr, "")

	printChain(os.Stderr, err)

	os.Exit(1)
}

func WarnWith(err error) {
	fmt.Println("")
	fmt.Println(chalk.Yellow.Color("=== ⚠️  warning"))
	fmt.Println("")

	printChain(os.Stdout, err)
}
