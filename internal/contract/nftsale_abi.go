package contract

func init() {
	RegisterBuiltin(KindNFTSale, "Pancake Squad Sale", "Ticket sale and mint for the squad collection.", nftSaleABI)
}

const nftSaleABI = `[
  {"type":"function","name":"currentStatus","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"maxPerAddress","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"maxPerTransaction","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"pricePerTicket","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"startTimestamp","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalTicketsDistributed","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"maxSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"viewNumberTicketsOfUser","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"numberTicketsForGen0","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"numberTicketsUsedForGen0","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"canClaimForGen0","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"ticketsOfUserBySize","stateMutability":"view","inputs":[{"name":"user","type":"address"},{"name":"cursor","type":"uint256"},{"name":"size","type":"uint256"}],"outputs":[{"name":"","type":"uint256[]"},{"name":"","type":"uint256"}]},
  {"type":"function","name":"buyTickets","stateMutability":"nonpayable","inputs":[{"name":"_numberTickets","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"buyTicketsInPreSaleForGen0","stateMutability":"nonpayable","inputs":[{"name":"_numberTickets","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"_ticketIds","type":"uint256[]"}],"outputs":[]}
]`
