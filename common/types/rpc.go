package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Batch statuses reported by zks_getL1BatchDetails and zks_getBlockDetails.
const (
	BatchStatusSealed   = "sealed"
	BatchStatusVerified = "verified"
)

// Transaction statuses reported by zks_getTransactionDetails.
const (
	TxDetailsPending  = "pending"
	TxDetailsIncluded = "included"
	TxDetailsVerified = "verified"
	TxDetailsFailed   = "failed"
)

// Block is an L2 block as returned by eth_getBlockByNumber with full transactions.
// zkSync specific transaction types (EIP-712, priority) are kept as raw fields
// so they decode without go-ethereum's typed transaction envelope.
type Block struct {
	Number        hexutil.Uint64   `json:"number"`
	Hash          common.Hash      `json:"hash"`
	ParentHash    common.Hash      `json:"parentHash"`
	Timestamp     hexutil.Uint64   `json:"timestamp"`
	GasUsed       hexutil.Uint64   `json:"gasUsed"`
	GasLimit      hexutil.Uint64   `json:"gasLimit"`
	BaseFeePerGas *hexutil.Big     `json:"baseFeePerGas"`
	L1BatchNumber *hexutil.Uint64  `json:"l1BatchNumber"`
	Transactions  []RPCTransaction `json:"transactions"`
}

// RPCTransaction is a transaction as returned inside a full block or by eth_getTransactionByHash.
type RPCTransaction struct {
	Hash             common.Hash     `json:"hash"`
	From             common.Address  `json:"from"`
	To               *common.Address `json:"to"`
	Value            *hexutil.Big    `json:"value"`
	Input            hexutil.Bytes   `json:"input"`
	Gas              hexutil.Uint64  `json:"gas"`
	GasPrice         *hexutil.Big    `json:"gasPrice"`
	Nonce            hexutil.Uint64  `json:"nonce"`
	Type             hexutil.Uint64  `json:"type"`
	BlockNumber      *hexutil.Uint64 `json:"blockNumber"`
	TransactionIndex *hexutil.Uint64 `json:"transactionIndex"`
	L1BatchNumber    *hexutil.Uint64 `json:"l1BatchNumber"`
}

// IsTo reports whether the transaction recipient equals address, ignoring case.
func (t RPCTransaction) IsTo(address string) bool {
	return t.To != nil && strings.EqualFold(t.To.Hex(), address)
}

// IsFrom reports whether the transaction sender equals address, ignoring case.
func (t RPCTransaction) IsFrom(address string) bool {
	return strings.EqualFold(t.From.Hex(), address)
}

// Receipt is a transaction receipt with zkSync batch metadata.
type Receipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	ContractAddress   *common.Address `json:"contractAddress"`
	GasUsed           *hexutil.Big    `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	Status            hexutil.Uint64  `json:"status"`
	Type              hexutil.Uint64  `json:"type"`
	L1BatchNumber     *hexutil.Uint64 `json:"l1BatchNumber"`
	Logs              []*ethtypes.Log `json:"logs"`
}

// Succeeded reports whether the receipt status is successful.
func (r *Receipt) Succeeded() bool {
	return uint64(r.Status) == ethtypes.ReceiptStatusSuccessful
}

// Confirmations returns the number of blocks including the receipt block up to currentBlock.
func (r *Receipt) Confirmations(currentBlock uint64) uint64 {
	if currentBlock < uint64(r.BlockNumber) {
		return 0
	}
	return currentBlock - uint64(r.BlockNumber) + 1
}

// L1BatchDetails is the result of zks_getL1BatchDetails.
type L1BatchDetails struct {
	Number         uint64       `json:"number"`
	Timestamp      uint64       `json:"timestamp"`
	L1TxCount      uint64       `json:"l1TxCount"`
	L2TxCount      uint64       `json:"l2TxCount"`
	RootHash       *common.Hash `json:"rootHash"`
	Status         string       `json:"status"`
	CommitTxHash   *common.Hash `json:"commitTxHash"`
	CommittedAt    *string      `json:"committedAt"`
	ProveTxHash    *common.Hash `json:"proveTxHash"`
	ProvenAt       *string      `json:"provenAt"`
	ExecuteTxHash  *common.Hash `json:"executeTxHash"`
	ExecutedAt     *string      `json:"executedAt"`
	L1GasPrice     uint64       `json:"l1GasPrice"`
	L2FairGasPrice uint64       `json:"l2FairGasPrice"`
}

// IsExecuted reports whether the batch proof is verified and its execute transaction is known.
func (d *L1BatchDetails) IsExecuted() bool {
	return d.Status == BatchStatusVerified && d.ExecuteTxHash != nil && *d.ExecuteTxHash != (common.Hash{})
}

// Stage returns the furthest L1 stage the batch reached: Executed, Proven, Committed or Sealed.
func (d *L1BatchDetails) Stage() string {
	switch {
	case d.IsExecuted():
		return "Executed"
	case d.ProveTxHash != nil:
		return "Proven"
	case d.CommitTxHash != nil:
		return "Committed"
	default:
		return "Sealed"
	}
}

// BlockDetails is the result of zks_getBlockDetails.
type BlockDetails struct {
	Number          uint64          `json:"number"`
	L1BatchNumber   uint64          `json:"l1BatchNumber"`
	Timestamp       uint64          `json:"timestamp"`
	L1TxCount       uint64          `json:"l1TxCount"`
	L2TxCount       uint64          `json:"l2TxCount"`
	RootHash        *common.Hash    `json:"rootHash"`
	Status          string          `json:"status"`
	CommitTxHash    *common.Hash    `json:"commitTxHash"`
	ProveTxHash     *common.Hash    `json:"proveTxHash"`
	ExecuteTxHash   *common.Hash    `json:"executeTxHash"`
	OperatorAddress *common.Address `json:"operatorAddress"`
	ProtocolVersion string          `json:"protocolVersion"`
}

// TransactionDetails is the result of zks_getTransactionDetails.
type TransactionDetails struct {
	IsL1Originated   bool           `json:"isL1Originated"`
	Status           string         `json:"status"`
	Fee              *hexutil.Big   `json:"fee"`
	GasPerPubdata    *hexutil.Big   `json:"gasPerPubdata"`
	InitiatorAddress common.Address `json:"initiatorAddress"`
	ReceivedAt       string         `json:"receivedAt"`
	EthCommitTxHash  *common.Hash   `json:"ethCommitTxHash"`
	EthProveTxHash   *common.Hash   `json:"ethProveTxHash"`
	EthExecuteTxHash *common.Hash   `json:"ethExecuteTxHash"`
}

// BridgeContracts is the result of zks_getBridgeContracts.
type BridgeContracts struct {
	L1Erc20DefaultBridge  *common.Address `json:"l1Erc20DefaultBridge"`
	L2Erc20DefaultBridge  *common.Address `json:"l2Erc20DefaultBridge"`
	L1WethBridge          *common.Address `json:"l1WethBridge"`
	L2WethBridge          *common.Address `json:"l2WethBridge"`
	L1SharedDefaultBridge *common.Address `json:"l1SharedDefaultBridge"`
	L2SharedDefaultBridge *common.Address `json:"l2SharedDefaultBridge"`
}

// LogProof is the result of zks_getL2ToL1LogProof.
type LogProof struct {
	Proof []common.Hash `json:"proof"`
	ID    uint64        `json:"id"`
	Root  common.Hash   `json:"root"`
}

// FeeParams is the result of zks_getFeeParams. Its shape is versioned by the node,
// so it is kept as a generic document.
type FeeParams map[string]interface{}
