package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/term"
)

// readLine prints label and reads one line from the input stream
func (a *app) readLine(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", goerr.Wrap(err, "failed to read input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads a line without echo when the input is a terminal
func (a *app) readSecret(label string) (string, error) {
	f, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.readLine(label)
	}

	fmt.Fprint(a.out, label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read passphrase")
	}
	return string(secret), nil
}

// confirm asks a yes/no question; anything but y or yes is a no
func (a *app) confirm(question string) (bool, error) {
	answer, err := a.readLine(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
