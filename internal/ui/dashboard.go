package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/squadcli/internal/actions"
	"github.com/Mohsinsiddi/squadcli/internal/i18n"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/txflow"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// Dialog ids.
const (
	ModalEnable  = "enable"
	ModalConfirm = "confirm"
	ModalBuy     = "buy"
	ModalMint    = "mint"
)

// ResultContent is the copy of the result dialog id.
func ResultContent(id string, t i18n.Func) ModalContent {
	switch id {
	case ModalEnable:
		return ModalContent{
			Title:        t("Enable", nil),
			LoadingText:  t("Please enable CAKE spending in your wallet", nil),
			LoadingLabel: t("Enabling...", nil),
			SuccessLabel: t("Close", nil),
		}
	case ModalMint:
		return ModalContent{
			Title:        t("Mint", nil),
			LoadingText:  t("Please enable BNB spending in your wallet", nil),
			LoadingLabel: t("Minting...", nil),
			SuccessLabel: t("Close", nil),
		}
	default:
		return ModalContent{
			Title:        t("Confirm", nil),
			LoadingText:  t("Please enable BNB spending in your wallet", nil),
			LoadingLabel: t("Confirming...", nil),
			SuccessLabel: t("Close", nil),
		}
	}
}

// DashboardConfig wires the live sale view.
type DashboardConfig struct {
	Network string
	Account common.Address
	Load    func(ctx context.Context) (sale.Snapshot, error)

	// Buy and Mint are nil for watch-only wallets.
	Buy  *actions.BuyTickets
	Mint *actions.Mint

	Modals *ModalStack
	Toasts *Toasts

	// Heads delivers new block numbers. Nil falls back to polling only.
	Heads    <-chan uint64
	Interval time.Duration
	TxURL    func(hash string) string
	T        i18n.Func
}

type (
	snapshotMsg   sale.Snapshot
	loadErrMsg    struct{ err error }
	headMsg       uint64
	pollMsg       time.Time
	frameMsg      struct{}
	actionDoneMsg struct {
		id  string
		err error
	}
)

// DashboardModel is the bubbletea model of the live sale view.
type DashboardModel struct {
	cfg DashboardConfig
	ctx context.Context

	snap     sale.Snapshot
	loaded   bool
	updated  time.Time
	block    uint64
	err      string
	cursor   int
	tickets  int
	frame    int
	quitting bool
}

// NewDashboardModel creates the model. ctx bounds every chain call it makes.
func NewDashboardModel(ctx context.Context, cfg DashboardConfig) DashboardModel {
	if cfg.T == nil {
		cfg.T = i18n.English
	}
	if cfg.Modals == nil {
		cfg.Modals = &ModalStack{}
	}
	if cfg.Toasts == nil {
		cfg.Toasts = NewToasts(6 * time.Second)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	return DashboardModel{cfg: cfg, ctx: ctx, tickets: 1}
}

// RunDashboard runs the view until the user quits.
func RunDashboard(ctx context.Context, cfg DashboardConfig) error {
	_, err := tea.NewProgram(NewDashboardModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.poll(), m.waitHead(), frameTick())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if id, ok := m.cfg.Modals.Top(); ok {
			return m.updateModal(id, msg)
		}
		return m.updateMain(msg)

	case snapshotMsg:
		m.snap = sale.Snapshot(msg)
		m.loaded = true
		m.updated = time.Now()
		m.err = ""
		if n := len(m.controls()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}

	case loadErrMsg:
		m.err = msg.err.Error()

	case headMsg:
		m.block = uint64(msg)
		return m, tea.Batch(m.load(), m.waitHead())

	case pollMsg:
		return m, tea.Batch(m.load(), m.poll())

	case frameMsg:
		m.frame++
		return m, frameTick()

	case actionDoneMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
		} else if msg.id == actions.ControlBuy {
			m.cfg.Modals.Modal(ModalBuy).Dismiss()
		}
		return m, m.load()
	}
	return m, nil
}

func (m DashboardModel) updateMain(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	controls := m.controls()
	switch key.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r":
		return m, m.load()
	case "up", "k", "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "right", "l", "tab":
		if m.cursor < len(controls)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < len(controls) && controls[m.cursor].Enabled {
			return m.activate(controls[m.cursor])
		}
	}
	return m, nil
}

func (m DashboardModel) activate(c actions.Control) (tea.Model, tea.Cmd) {
	switch c.ID {
	case actions.ControlEnable:
		buy := m.cfg.Buy
		return m, m.run(c.ID, buy.Enable)
	case actions.ControlBuy:
		m.tickets = 1
		m.cfg.Buy.OpenBuy()
	case actions.ControlMint:
		snap, mint := m.snap, m.cfg.Mint
		return m, m.run(c.ID, func(ctx context.Context) error { return mint.Mint(ctx, snap) })
	}
	return m, nil
}

func (m DashboardModel) updateModal(id string, key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if id == ModalBuy {
		return m.updateBuyForm(key)
	}
	if m.resultLoading(id) {
		return m, nil
	}
	switch key.String() {
	case "enter", "esc", "q", " ":
		m.cfg.Modals.Modal(id).Dismiss()
		switch id {
		case ModalEnable:
			m.cfg.Buy.Dismiss(txflow.KindApprove)
		case ModalConfirm:
			m.cfg.Buy.Dismiss(txflow.KindConfirm)
		case ModalMint:
			m.cfg.Mint.Dismiss()
		}
	}
	return m, nil
}

func (m DashboardModel) updateBuyForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	limit := max(sale.MaxPurchase(m.snap.SaleStatus, m.snap.Facts), 1)
	switch key.String() {
	case "esc", "q":
		m.cfg.Modals.Modal(ModalBuy).Dismiss()
	case "up", "k", "+", "right", "l":
		if m.tickets < limit {
			m.tickets++
		}
	case "down", "j", "-", "left", "h":
		if m.tickets > 1 {
			m.tickets--
		}
	case "enter":
		if m.cfg.Buy.State().IsConfirming() {
			return m, nil
		}
		snap, n, buy := m.snap, m.tickets, m.cfg.Buy
		return m, m.run(actions.ControlBuy, func(ctx context.Context) error { return buy.Buy(ctx, snap, n) })
	default:
		if d, err := strconv.Atoi(key.String()); err == nil && d >= 1 && d <= limit {
			m.tickets = d
		}
	}
	return m, nil
}

func (m DashboardModel) run(id string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{id: id, err: fn(ctx)}
	}
}

func (m DashboardModel) load() tea.Cmd {
	ctx, load := m.ctx, m.cfg.Load
	return func() tea.Msg {
		snap, err := load(ctx)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return snapshotMsg(snap)
	}
}

func (m DashboardModel) poll() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m DashboardModel) waitHead() tea.Cmd {
	heads := m.cfg.Heads
	if heads == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-heads
		if !ok {
			return nil
		}
		return headMsg(n)
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m DashboardModel) controls() []actions.Control {
	if !m.loaded || m.cfg.Buy == nil {
		return nil
	}
	out := m.cfg.Buy.Controls(m.snap)
	if m.cfg.Mint != nil {
		if c, ok := m.cfg.Mint.Control(m.snap); ok {
			out = append(out, c)
		}
	}
	return out
}

func (m DashboardModel) resultLoading(id string) bool {
	switch id {
	case ModalEnable:
		return m.cfg.Buy != nil && m.cfg.Buy.State().IsApproving()
	case ModalConfirm:
		return m.cfg.Buy != nil && m.cfg.Buy.State().IsConfirming()
	case ModalMint:
		return m.cfg.Mint != nil && m.cfg.Mint.State().IsConfirming()
	}
	return false
}

func (m DashboardModel) resultHash(id string) common.Hash {
	switch id {
	case ModalEnable:
		if m.cfg.Buy != nil {
			return m.cfg.Buy.State().ApproveHash()
		}
	case ModalConfirm:
		if m.cfg.Buy != nil {
			return m.cfg.Buy.State().ConfirmHash()
		}
	case ModalMint:
		if m.cfg.Mint != nil {
			return m.cfg.Mint.State().ConfirmHash()
		}
	}
	return common.Hash{}
}

func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}
	t := m.cfg.T

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("Pancake Squad") + "\n")
	header := fmt.Sprintf("%s · %s", ChainName(m.cfg.Network), Addr(TruncateAddr(m.cfg.Account.Hex())))
	if m.block > 0 {
		header += Meta(fmt.Sprintf(" · block %d", m.block))
	}
	if !m.updated.IsZero() {
		header += Meta(" · updated " + m.updated.Format("15:04:05"))
	}
	sb.WriteString(header + "\n\n")

	if m.err != "" {
		sb.WriteString(Err(m.err) + "\n\n")
	}
	if !m.loaded {
		sb.WriteString(StyleChain.Render(Frame(m.frame)) + Meta(" loading sale…") + "\n")
		return sb.String()
	}

	sb.WriteString(SaleBlock(m.snap, t) + "\n")
	sb.WriteString(m.renderControls() + "\n")

	if m.cfg.Buy != nil {
		if text, ok := m.cfg.Buy.Ready(m.snap); ok {
			sb.WriteString(Success(text) + "\n")
		}
	} else {
		sb.WriteString(Hint("watch-only wallet: add a key to buy or mint") + "\n")
	}

	for _, toast := range m.cfg.Toasts.Active() {
		sb.WriteString("\n" + RenderToast(toast))
	}

	if id, ok := m.cfg.Modals.Top(); ok {
		sb.WriteString("\n\n" + m.renderModal(id))
	}

	sb.WriteString("\n" + Meta("[ ↑↓ ] move   [ Enter ] select   [ r ] refresh   [ q ] quit") + "\n")
	return sb.String()
}

func (m DashboardModel) renderControls() string {
	controls := m.controls()
	if len(controls) == 0 {
		if b := sale.HeaderButton(m.snap.UserStatus, m.snap.SaleStatus, m.snap.Facts); b != sale.ButtonNone {
			return Button(m.cfg.T(b.String(), nil), false) + "\n"
		}
		return ""
	}
	var parts []string
	for i, c := range controls {
		label := c.Label
		if c.Busy {
			label = Frame(m.frame) + " " + label
		}
		cell := Button(label, c.Enabled)
		if i == m.cursor {
			cell = StyleChain.Render("▸ ") + cell
		} else {
			cell = "  " + cell
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "\n") + "\n"
}

func (m DashboardModel) renderModal(id string) string {
	if id == ModalBuy {
		return m.renderBuyForm()
	}
	hash := m.resultHash(id)
	url := ""
	if hash != (common.Hash{}) && m.cfg.TxURL != nil {
		url = m.cfg.TxURL(hash.Hex())
	}
	return RenderResultModal(ResultContent(id, m.cfg.T), m.resultLoading(id), hash, url)
}

func (m DashboardModel) renderBuyForm() string {
	t := m.cfg.T
	f := m.snap.Facts
	pairs := [][2]string{
		{t("Tickets", nil), strconv.Itoa(m.tickets)},
		{t("Cost", nil), FormatCake(sale.Cost(f, m.tickets))},
		{t("Balance", nil), FormatCake(f.CakeBalance)},
		{t("Max this purchase", nil), strconv.Itoa(sale.MaxPurchase(m.snap.SaleStatus, f))},
	}
	body := KeyValueBlock(t("Buy Minting Tickets", nil), pairs)
	if err := sale.ValidatePurchase(m.snap.SaleStatus, f, m.tickets); err != nil {
		body += "\n" + Warn(err.Error())
	}
	hint := "[ ↑↓ ] tickets   [ Enter ] buy   [ esc ] close"
	if m.cfg.Buy != nil && m.cfg.Buy.State().IsConfirming() {
		hint = Frame(m.frame) + " " + t("Confirming...", nil)
	}
	return body + "\n" + Meta(hint)
}

// SaleBlock renders the sale parameters and the account's position.
func SaleBlock(s sale.Snapshot, t i18n.Func) string {
	f := s.Facts
	pairs := [][2]string{
		{t("Phase", nil), s.SaleStatus.String()},
		{t("Price per ticket", nil), FormatCake(f.PricePerTicket)},
		{t("Max per address", nil), strconv.Itoa(f.MaxPerAddress)},
		{t("Max per transaction", nil), strconv.Itoa(f.MaxPerTransaction)},
	}
	if s.UserStatus != sale.Unconnected {
		pairs = append(pairs,
			[2]string{t("Profile", nil), s.UserStatus.String()},
			[2]string{t("Your tickets", nil), strconv.Itoa(f.TicketsOfUser)},
			[2]string{t("CAKE balance", nil), FormatCake(f.CakeBalance)},
		)
		if f.TicketsForGen0 > 0 {
			pairs = append(pairs, [2]string{
				t("Gen0 pre-sale tickets", nil),
				fmt.Sprintf("%d of %d used", f.TicketsUsedForGen0, f.TicketsForGen0),
			})
		}
	}
	return KeyValueBlock(t("Sale", nil), pairs)
}
