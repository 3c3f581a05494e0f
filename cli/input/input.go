// Package input provides helpers for reading interactive user input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader is the source of user input. It defaults to stdin and is
// replaceable for tests.
var Reader io.Reader = os.Stdin

// ReadLine prints the prompt to w and reads a line from Reader without the
// trailing '\n'.
func ReadLine(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(Reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks the user a yes/no question and returns true only on an
// explicit "y" or "yes" answer.
func Confirm(w io.Writer, prompt string) (bool, error) {
	answer, err := ReadLine(w, prompt+" [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
