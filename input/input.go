// Package input provides interactive terminal input utilities.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrAborted is returned when the user quits a menu with ctrl+c, esc or q.
var ErrAborted = errors.New("aborted by user")

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	reader *bufio.Reader
)

// SetIO redirects prompts to the given streams. Passing nil restores the
// process's stdin and stdout.
func SetIO(in io.Reader, out io.Writer) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	stdin, stdout, reader = in, out, nil
}

// IsTerminal reports whether stdin and stdout are attached to a terminal,
// i.e. whether interactive menus can be shown.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func readLine() (string, error) {
	if reader == nil {
		reader = bufio.NewReader(stdin)
	}
	return reader.ReadString('\n')
}

// Prompt asks the user for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
// Example:
//
//	name := input.Prompt("Project name", "my-app")
//	// Displays: Project name (my-app): _
func Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(stdout, promptStyle.Render(message)+" "+
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue))+": ")
	} else {
		fmt.Fprint(stdout, promptStyle.Render(message)+": ")
	}

	input, err := readLine()
	if err != nil && input == "" {
		return defaultValue
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}

	return input
}

// Confirm asks the user a yes/no question.
// Returns true if the user answers yes (y/Y/yes/YES), false otherwise.
// If defaultYes is true, pressing Enter returns true. Otherwise, returns false.
//
// Example:
//
//	if input.Confirm("Use history mode for router?", true) {
//	    // User said yes (or pressed Enter with defaultYes=true)
//	}
//	// Displays: Use history mode for router? [Y/n]: _
func Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	fmt.Fprint(stdout, promptStyle.Render(message)+" "+
		hintStyle.Render(hint)+": ")

	input, err := readLine()
	if err != nil && input == "" {
		return defaultYes
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultYes
	}

	return input == "y" || input == "yes"
}
