package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isInteractive reports whether in is a terminal attached to stdin.
func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && f == os.Stdin && term.IsTerminal(int(f.Fd()))
}

// prompt prints label and reads one trimmed line.
func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo on a terminal and falls
// back to a plain line otherwise.
func (a *App) promptPassword() (string, error) {
	if !a.interactive {
		return prompt(a.in, a.out, "Password")
	}

	if _, err := fmt.Fprint(a.out, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
