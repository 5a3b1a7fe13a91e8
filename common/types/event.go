package types

import (
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/pkg/errors"
)

// TriggerKind identifies what a poller watches.
type TriggerKind string

const (
	KindNewBlock             TriggerKind = "newBlock"
	KindNewL1Batch           TriggerKind = "newL1Batch"
	KindTransactionConfirmed TriggerKind = "transactionConfirmed"
	KindEthReceived          TriggerKind = "ethReceived"
	KindEthSent              TriggerKind = "ethSent"
	KindTokenTransfer        TriggerKind = "tokenTransfer"
	KindNftTransfer          TriggerKind = "nftTransfer"
	KindContractEvent        TriggerKind = "contractEvent"
	KindBlockFinalized       TriggerKind = "blockFinalized"
	KindBalanceChange        TriggerKind = "balanceChange"
)

// TriggerKinds lists every supported trigger kind.
var TriggerKinds = []TriggerKind{
	KindNewBlock,
	KindNewL1Batch,
	KindTransactionConfirmed,
	KindEthReceived,
	KindEthSent,
	KindTokenTransfer,
	KindNftTransfer,
	KindContractEvent,
	KindBlockFinalized,
	KindBalanceChange,
}

// String converts TriggerKind to string representation.
func (k TriggerKind) String() string {
	return string(k)
}

// ParseTriggerKind converts string to TriggerKind representation.
func ParseTriggerKind(s string) (TriggerKind, error) {
	for _, kind := range TriggerKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", errors.Wrapf(zkerrors.ErrInvalidTrigger, "unknown trigger kind %q", s)
}

// Event represents one state transition observed by a poller.
// Only the fields relevant to Kind are populated.
//
// Fields:
// - Kind: the trigger kind that produced the event.
// - Address: the watched account, for balance changes.
// - BlockNumber: the L2 block of the event.
// - BatchNumber: the L1 batch of the event.
// - BlockHash: the L2 block hash.
// - Timestamp: the block or batch timestamp.
// - TxHash: the transaction hash associated with the event.
// - LogIndex: the index of the log within the block.
// - From: the sender address.
// - To: the recipient address.
// - Value: the transferred amount in base units.
// - ValueFormatted: the transferred amount in ether, for native transfers.
// - TokenID: the NFT token id.
// - Contract: the emitting contract address.
// - EventName: the decoded event name.
// - Args: the decoded event arguments.
// - Status: the transaction or batch status.
// - Confirmations: the observed confirmation count.
// - TransactionCount: the number of transactions in the block or batch.
// - ExecuteTxHash: the L1 execute transaction hash of a finalized batch.
// - PreviousBalance: the previous balance snapshot in wei.
// - CurrentBalance: the current balance snapshot in wei.
// - Delta: the signed balance change in wei.
// - DeltaFormatted: the signed balance change in ether.
type Event struct {
	Kind             TriggerKind            `json:"kind"`
	Address          string                 `json:"address,omitempty"`
	BlockNumber      uint64                 `json:"blockNumber,omitempty"`
	BatchNumber      uint64                 `json:"batchNumber,omitempty"`
	BlockHash        string                 `json:"blockHash,omitempty"`
	Timestamp        uint64                 `json:"timestamp,omitempty"`
	TxHash           string                 `json:"transactionHash,omitempty"`
	LogIndex         uint                   `json:"logIndex,omitempty"`
	From             string                 `json:"from,omitempty"`
	To               string                 `json:"to,omitempty"`
	Value            string                 `json:"value,omitempty"`
	ValueFormatted   string                 `json:"valueFormatted,omitempty"`
	TokenID          string                 `json:"tokenId,omitempty"`
	Contract         string                 `json:"contract,omitempty"`
	EventName        string                 `json:"eventName,omitempty"`
	Args             map[string]interface{} `json:"args,omitempty"`
	Status           string                 `json:"status,omitempty"`
	Confirmations    uint64                 `json:"confirmations,omitempty"`
	TransactionCount int                    `json:"transactionCount,omitempty"`
	ExecuteTxHash    string                 `json:"executeTxHash,omitempty"`
	PreviousBalance  string                 `json:"previousBalance,omitempty"`
	CurrentBalance   string                 `json:"currentBalance,omitempty"`
	Delta            string                 `json:"delta,omitempty"`
	DeltaFormatted   string                 `json:"deltaFormatted,omitempty"`
}
