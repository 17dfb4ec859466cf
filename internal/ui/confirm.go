package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Input is where prompts read answers from.
var Input io.Reader = os.Stdin

// Confirm asks a yes/no question on out. Anything but y or yes is no.
func Confirm(out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", StyleWarning.Render(prompt))
	return readYes()
}

// ConfirmDanger is Confirm styled for destructive actions.
func ConfirmDanger(out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", StyleError.Render("⚠ "+prompt))
	return readYes()
}

func readYes() bool {
	line, _ := bufio.NewReader(Input).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
