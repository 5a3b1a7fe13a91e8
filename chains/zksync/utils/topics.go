package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransferTopic is the topic of Transfer(address,address,uint256), shared by ERC-20 and ERC-721.
var TransferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// MaxLogRange is the widest block span sent in one eth_getLogs request.
const MaxLogRange = 10000

// TopicToAddress extracts the address stored in the low 20 bytes of a topic.
func TopicToAddress(topic common.Hash) common.Address {
	return common.BytesToAddress(topic.Bytes())
}

// AddressToTopic left-pads an address into a topic.
func AddressToTopic(address common.Address) common.Hash {
	return common.BytesToHash(address.Bytes())
}

// GetEventType determines the well-known event type from log topics.
func GetEventType(log types.Log) string {
	if len(log.Topics) == 0 {
		return ""
	}

	if log.Topics[0] != TransferTopic {
		return ""
	}

	switch len(log.Topics) {
	case 3:
		return "ERC20Transfer"
	case 4:
		return "ERC721Transfer"
	default:
		return ""
	}
}

// DecodeTransferValue reads the uint256 amount from ERC-20 Transfer log data.
func DecodeTransferValue(data []byte) *big.Int {
	if len(data) < 32 {
		return new(big.Int).SetBytes(data)
	}
	return new(big.Int).SetBytes(data[:32])
}
