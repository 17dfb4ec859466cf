package contract

func init() {
	RegisterBuiltin(KindProfile, "Pancake Profile", "Whether an address has an active profile.", profileABI)
}

const profileABI = `[
  {"type":"function","name":"getUserStatus","stateMutability":"view","inputs":[{"name":"_userAddress","type":"address"}],"outputs":[{"name":"","type":"bool"}]}
]`
