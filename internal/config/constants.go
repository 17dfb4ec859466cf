package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
// These are conservative upper bounds; actual gas used will be lower.
const (
	GasLimitApprove    = uint64(60_000)
	GasLimitBuyTickets = uint64(250_000)
	GasLimitMint       = uint64(1_200_000) // mint loops over every ticket id
)

// Timeouts used by the one-shot commands.
const (
	RPCSelectTimeout = 10 * time.Second // RPC benchmark / selection
	ReadTimeout      = 20 * time.Second // loading a sale snapshot
	TxConfirmTimeout = 3 * time.Minute  // send + wait for receipt
	ReceiptPoll      = 2 * time.Second
)
