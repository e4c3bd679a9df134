package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Tiliavir/jbstime/internal/apperr"
)

// prompter asks questions on out and reads answers from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal used for hidden input, or -1.
	fd int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question. Anything but y or yes, including end of
// input, is a no.
func (p *prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, err := p.readLine()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Line asks for a non-empty value.
func (p *prompter) Line(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		v, err := p.readLine()
		if err != nil {
			return "", apperr.Wrap(apperr.InvalidArgument, err, "No %s provided", strings.ToLower(label))
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
}

// Password asks for a value without echoing it when reading from a terminal.
func (p *prompter) Password(label string) (string, error) {
	if p.fd < 0 {
		return p.Line(label)
	}
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
		}
		if v := string(b); v != "" {
			return v, nil
		}
	}
}
