package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/Mohsinsiddi/squadcli/internal/actions"
	"github.com/Mohsinsiddi/squadcli/internal/chain"
	"github.com/Mohsinsiddi/squadcli/internal/config"
	"github.com/Mohsinsiddi/squadcli/internal/contract"
	"github.com/Mohsinsiddi/squadcli/internal/history"
	"github.com/Mohsinsiddi/squadcli/internal/i18n"
	"github.com/Mohsinsiddi/squadcli/internal/rpc"
	"github.com/Mohsinsiddi/squadcli/internal/sale"
	"github.com/Mohsinsiddi/squadcli/internal/ui"
	"github.com/Mohsinsiddi/squadcli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// session is what a sale command needs for one wallet on one network.
type session struct {
	chain   *chain.Chain
	mode    string
	chainID int64
	client  *chain.EVMClient
	addrs   sale.Addresses
	reader  *sale.Reader

	wallet  *wallet.Wallet    // nil when no wallet is configured
	gateway *contract.Gateway // nil for watch-only wallets
	history history.Store     // nil when the database cannot be opened
	t       i18n.Func
}

// openSession resolves the network, RPC endpoint, contracts and wallet.
// needSigner requires a wallet holding a private key.
func openSession(ctx context.Context, needSigner bool) (*session, error) {
	c, err := chain.NewRegistry().GetByName(cfg.DefaultNetwork)
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", cfg.DefaultNetwork, err)
	}
	s := &session{chain: c, mode: cfg.NetworkMode, chainID: c.ChainID(cfg.NetworkMode), t: i18n.English}

	if s.addrs, err = saleAddresses(s.chainID); err != nil {
		return nil, err
	}

	if err := s.resolveWallet(needSigner); err != nil {
		return nil, err
	}

	algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
	if err != nil {
		return nil, err
	}
	urls := append(append([]string(nil), cfg.GetRPCs(s.mode)...), c.RPCs(s.mode)...)
	if s.client, err = rpc.Dial(ctx, urls, algo, config.RPCSelectTimeout); err != nil {
		return nil, fmt.Errorf("selecting RPC: %w", err)
	}
	log.Debug("rpc selected", zap.String("url", s.client.URL()), zap.Int64("chain_id", s.chainID))

	s.reader = sale.NewReader(s.client, s.addrs, log.Named("sale"))

	if s.wallet != nil && s.wallet.CanSign() {
		mgr, err := newWalletManager()
		if err != nil {
			return nil, err
		}
		signer, err := mgr.Signer(s.wallet)
		if err != nil {
			return nil, err
		}
		s.gateway = contract.NewGateway(s.client, signer, big.NewInt(s.chainID),
			contract.WithPollInterval(config.ReceiptPoll),
			contract.WithGasLimit("approve", config.GasLimitApprove),
			contract.WithGasLimit("buyTickets", config.GasLimitBuyTickets),
			contract.WithGasLimit("buyTicketsInPreSaleForGen0", config.GasLimitBuyTickets),
			contract.WithGasLimit("mint", config.GasLimitMint),
			contract.WithLogger(log.Named("gateway")),
		)
	}

	if store, err := history.Open(cfg.HistoryPath(), log.Named("history")); err != nil {
		log.Warn("history disabled", zap.Error(err))
	} else {
		s.history = store
	}
	return s, nil
}

func (s *session) resolveWallet(needSigner bool) error {
	mgr, err := newWalletManager()
	if err != nil {
		return err
	}
	name := walletFlag
	if name == "" {
		name = cfg.DefaultWallet
	}
	w, err := mgr.Resolve(name)
	switch {
	case errors.Is(err, wallet.ErrNoWallet) && !needSigner:
		return nil
	case err != nil:
		return err
	case needSigner && !w.CanSign():
		return fmt.Errorf("%w: %s (add a key with `squad wallet add %s --key <hex>`)", wallet.ErrWatchOnly, w.Name, w.Name)
	}
	s.wallet = w
	return nil
}

// saleAddresses resolves the sale, CAKE and profile contracts. The profile
// contract is optional.
func saleAddresses(chainID int64) (sale.Addresses, error) {
	var a sale.Addresses
	var err error
	if a.Sale, err = cfg.ContractAddress(config.ContractNFTSale, chainID); err != nil {
		return a, err
	}
	if a.Cake, err = cfg.ContractAddress(config.ContractCake, chainID); err != nil {
		return a, err
	}
	a.Profile, err = cfg.ContractAddress(config.ContractProfile, chainID)
	if errors.Is(err, config.ErrAddressNotConfigured) {
		log.Debug("profile contract not configured, skipping profile check", zap.Int64("chain_id", chainID))
		return a, nil
	}
	return a, err
}

// Account is the wallet address, zero without a wallet.
func (s *session) Account() common.Address {
	if s.wallet == nil {
		return common.Address{}
	}
	return s.wallet.Account()
}

// Load reads a sale snapshot for the session account.
func (s *session) Load(ctx context.Context) (sale.Snapshot, error) {
	return s.reader.Load(ctx, s.Account())
}

// TxURL links hash on the block explorer.
func (s *session) TxURL(hash string) string {
	return s.chain.TxURL(s.mode, hash)
}

// Network is the display label of the network.
func (s *session) Network() string {
	return s.chain.NetworkLabel(s.mode)
}

// deps builds action dependencies. Attempts are recorded under action.
func (s *session) deps(action history.Action, toast actions.Toaster) actions.Deps {
	d := actions.Deps{
		Account:   s.Account(),
		Sale:      s.reader.SaleContract(),
		Cake:      s.reader.CakeContract(),
		Allowance: s.reader,
		Toast:     toast,
		T:         s.t,
		Log:       log.Named(action),
	}
	if s.gateway != nil {
		d.Sender = s.gateway
	}
	if s.history != nil {
		rec := history.NewRecorder(s.history, action, s.chainID, s.Account(), log.Named("history"))
		d.Observers = append(d.Observers, rec.Observe)
	}
	return d
}

// Close releases the history database.
func (s *session) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			log.Warn("closing history", zap.Error(err))
		}
	}
}

// printToast writes a failure notification to stderr.
func printToast(title, message string) {
	fmt.Fprintln(os.Stderr, ui.RenderToast(ui.Toast{Title: title, Message: message}))
}

// newWalletManager creates a Manager backed by the config-dir JSON store and
// the OS keychain.
func newWalletManager() (*wallet.Manager, error) {
	keys, err := wallet.OpenKeystore(filepath.Join(cfg.Dir(), "keys"))
	if err != nil {
		return nil, err
	}
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeys(keys),
	), nil
}
