package types

// Transaction represents a submitted zkSync transaction.
//
// Fields:
// - Hash: the hash of the transaction.
// - From: the address from which the transaction is sent.
// - To: the recipient address (token contract for token transfers).
// - Recipient: the final beneficiary of the transfer.
// - Amount: the amount transferred, in base units.
// - Token: the token address, zero address for ETH.
// - Nonce: the nonce of the transaction.
// - ChainID: the chain where the transaction was sent.
// - ExplorerUrl: the explorer link, empty for custom networks.
type Transaction struct {
	Hash        string
	From        string
	To          string
	Recipient   string
	Amount      string
	Token       string
	Nonce       uint64
	ChainID     uint64
	ExplorerUrl string
}

// TransactionStatus is the outcome of waiting for a transaction.
type TransactionStatus string

const (
	// TxDone indicates the transaction was mined successfully with enough confirmations.
	TxDone TransactionStatus = "DONE"
	// TxFailed indicates the transaction was mined and reverted.
	TxFailed TransactionStatus = "FAILED"
	// TxPending indicates no receipt was available before the retry budget ran out.
	TxPending TransactionStatus = "PENDING"
)
