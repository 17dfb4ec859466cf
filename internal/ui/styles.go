package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#31D0AA") // mined, enabled
	ColorWarning   = lipgloss.Color("#FFB237") // pending, caution
	ColorError     = lipgloss.Color("#ED4B9E") // failed, reverted
	ColorAddress   = lipgloss.Color("#1FC7D4") // addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF")
	ColorMeta      = lipgloss.Color("#666171")
	ColorBorder    = lipgloss.Color("#372F47")
	ColorChain     = lipgloss.Color("#7645D9")
	ColorHighlight = lipgloss.Color("#F4EEFF")
	ColorInfo      = lipgloss.Color("#53DEE9")
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleDanger = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorError).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorChain).
			Foreground(ColorHighlight).
			Bold(true)

	StyleButton = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Background(ColorChain).
			Padding(0, 2)

	StyleButtonDisabled = lipgloss.NewStyle().
				Foreground(ColorMeta).
				Background(ColorBorder).
				Padding(0, 2)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Version is printed in the banner and by --version.
const Version = "0.3.0"

// Banner returns the squad ASCII banner.
func Banner() string {
	art := `
  ███████╗ ██████╗ ██╗   ██╗ █████╗ ██████╗
  ██╔════╝██╔═══██╗██║   ██║██╔══██╗██╔══██╗
  ███████╗██║   ██║██║   ██║███████║██║  ██║
  ╚════██║██║▄▄ ██║██║   ██║██╔══██║██║  ██║
  ███████║╚██████╔╝╚██████╔╝██║  ██║██████╔╝
  ╚══════╝ ╚══▀▀═╝  ╚═════╝ ╚═╝  ╚═╝╚═════╝`

	tagline := StyleMeta.Render("     Pancake Squad minting from the terminal  v" + Version)
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion for what to run next.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a network name.
func ChainName(c string) string { return StyleChain.Render(c) }

// Button renders a control label, dimmed when disabled.
func Button(label string, enabled bool) string {
	if !enabled {
		return StyleButtonDisabled.Render(label)
	}
	return StyleButton.Render(label)
}

// DangerBox frames content that must not be missed, such as key handling
// warnings.
func DangerBox(content string) string {
	return StyleDanger.Render(content)
}

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// padR pads s to visible width n.
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// trimErr shortens an RPC error for a table cell.
func trimErr(s string) string {
	for _, marker := range []string{
		"Post \"", "dial tcp", "connection refused", "context deadline", "rpc error",
	} {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
