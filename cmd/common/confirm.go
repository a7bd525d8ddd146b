package common

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes question to out and reads a yes/no answer from in. Anything
// other than "y" or "yes" counts as no.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
