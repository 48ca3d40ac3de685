package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before an answer is read
var ErrNoInput = errors.New("no input")

// Prompt asks for one line of input. An empty answer returns def.
func (u *UI) Prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(u.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(u.Out, "%s: ", label)
	}

	line, err := u.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Password asks for a secret without echoing it when input is a terminal.
func (u *UI) Password(label string) (string, error) {
	if u.inFd < 0 {
		return u.Prompt(label, "")
	}

	fmt.Fprintf(u.Out, "%s: ", label)
	secret, err := term.ReadPassword(u.inFd)
	fmt.Fprintln(u.Out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// Confirm asks a yes/no question, defaulting to no
func (u *UI) Confirm(question string) (bool, error) {
	answer, err := u.Prompt(question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "是":
		return true, nil
	default:
		return false, nil
	}
}
