package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// passwordPrompter reads a password without echo. Replaced in tests.
var passwordPrompter = promptPassword

// promptPassword asks for the Snowflake password when stdin is a terminal.
// It returns "" without prompting otherwise.
func promptPassword(user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	return readPassword(os.Stderr, user, func() ([]byte, error) { return term.ReadPassword(fd) })
}

func readPassword(out io.Writer, user string, read func() ([]byte, error)) (string, error) {
	fmt.Fprintf(out, "Snowflake password for %s: ", user)
	b, err := read()
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
