package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// HistoryRow is one recorded transaction attempt.
type HistoryRow struct {
	Started     time.Time
	Action      string
	Kind        string
	Status      string
	Tickets     int
	Hash        string
	ExplorerURL string
	Error       string
}

// HistoryTable lays out attempts newest first, as given.
func HistoryTable(rows []HistoryRow) *Table {
	t := NewTable([]Column{
		{Title: "Time", Width: 16},
		{Title: "Action", Width: 6},
		{Title: "Step", Width: 8},
		{Title: "Tickets", Width: 7},
		{Title: "Status", Width: 10},
		{Title: "Tx", Width: 14},
		{Title: "Error", Width: 32},
	})
	for _, r := range rows {
		tickets := ""
		if r.Tickets > 0 {
			tickets = strconv.Itoa(r.Tickets)
		}
		t.AddRow(Row{
			r.Started.Local().Format("2006-01-02 15:04"),
			r.Action,
			r.Kind,
			tickets,
			statusCell(r.Status),
			TruncateAddr(r.Hash),
			trimErr(r.Error),
		})
	}
	return t
}

func statusCell(status string) string {
	switch status {
	case "succeeded":
		return StyleSuccess.Render(status)
	case "failed":
		return StyleError.Render(status)
	case "pending":
		return StyleWarning.Render(status)
	default:
		return status
	}
}

// historyModel is the interactive attempt list.
type historyModel struct {
	title  string
	table  *Table
	rows   []HistoryRow
	cursor int
	flash  string
	open   func(url string)
	copy   func(text string) error
}

func (m historyModel) Init() tea.Cmd { return nil }

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "o":
		if m.cursor < len(m.rows) {
			if url := m.rows[m.cursor].ExplorerURL; url != "" {
				m.open(url)
				m.flash = "Opening in browser…"
			} else {
				m.flash = "No explorer link for this attempt"
			}
		}
	case "c":
		if m.cursor < len(m.rows) {
			hash := m.rows[m.cursor].Hash
			if hash == "" {
				m.flash = "No hash for this attempt"
				break
			}
			if err := m.copy(hash); err != nil {
				m.flash = "Copy failed: " + err.Error()
			} else {
				m.flash = "Copied " + TruncateAddr(hash)
			}
		}
	}
	return m, nil
}

func (m historyModel) View() string {
	m.table.SelIdx = m.cursor

	var sb strings.Builder
	sb.WriteString(m.title + "\n\n")
	sb.WriteString(m.table.Render())
	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(historyControls())
	}
	sb.WriteString("\n")
	return sb.String()
}

func historyControls() string {
	sep := StyleMeta.Render("   ")
	return StyleMeta.Render("[ ↑↓ ] navigate") + sep +
		StyleInfo.Render("[ o ]") + StyleMeta.Render(" open in explorer") + sep +
		StyleWarning.Render("[ c ]") + StyleMeta.Render(" copy hash") + sep +
		StyleMeta.Render("[ q ] quit")
}

// RunHistory shows the interactive attempt list until the user quits.
func RunHistory(title string, rows []HistoryRow) error {
	m := historyModel{
		title: title,
		table: HistoryTable(rows),
		rows:  rows,
		open:  openBrowser,
		copy:  copyToClipboard,
	}
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// openBrowser opens url in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	_, _ = io.WriteString(stdin, text)
	stdin.Close()
	return cmd.Wait()
}
