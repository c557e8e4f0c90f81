// Package prompt asks yes/no questions on the terminal.
package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Answer interprets a reply. Empty replies take the default; otherwise
// anything starting with y or n decides, and other text keeps the default.
func Answer(reply string, defaultYes bool) bool {
	switch r := strings.ToLower(strings.TrimSpace(reply)); {
	case strings.HasPrefix(r, "y"):
		return true
	case strings.HasPrefix(r, "n"):
		return false
	default:
		return defaultYes
	}
}

// Question renders q with the [Y/n] or [y/N] hint.
func Question(q string, defaultYes bool) string {
	if defaultYes {
		return q + " [Y/n]? "
	}
	return q + " [y/N]? "
}

// Terminal reads answers with a line editor on the controlling terminal.
type Terminal struct{}

// Confirm asks q. Ctrl-C and end of input answer no.
func (Terminal) Confirm(q string, defaultYes bool) (bool, error) {
	rl, err := readline.New(Question(q, defaultYes))
	if err != nil {
		return false, err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return Answer(line, defaultYes), nil
}
