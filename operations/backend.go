package operations

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/retry"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Backend is the node surface the operations need. *zksync.Client implements it.
type Backend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, address common.Address, block *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, address common.Address, block *big.Int) (uint64, error)
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	CodeAt(ctx context.Context, address common.Address, block *big.Int) ([]byte, error)
	BlockByNumber(ctx context.Context, number uint64) (*types.Block, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.RPCTransaction, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)

	L1BatchNumber(ctx context.Context) (uint64, error)
	L1BatchDetails(ctx context.Context, batch uint64) (*types.L1BatchDetails, error)
	BlockDetails(ctx context.Context, block uint64) (*types.BlockDetails, error)
	TransactionDetails(ctx context.Context, hash common.Hash) (*types.TransactionDetails, error)
	FeeParams(ctx context.Context) (types.FeeParams, error)
	BridgeContracts(ctx context.Context) (*types.BridgeContracts, error)
	MainContract(ctx context.Context) (common.Address, error)
	TestnetPaymaster(ctx context.Context) (*common.Address, error)
	BaseTokenL1Address(ctx context.Context) (common.Address, error)
	L2ToL1LogProof(ctx context.Context, hash common.Hash, index *uint64) (*types.LogProof, error)
	AllAccountBalances(ctx context.Context, address common.Address) (map[common.Address]*big.Int, error)
	L1BatchBlockRange(ctx context.Context, batch uint64) (uint64, uint64, error)

	TokenInfo(ctx context.Context, token common.Address) (*zksync.TokenInfo, error)
	TokenBalance(ctx context.Context, token, owner common.Address) (*zksync.TokenBalance, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	NFTOwner(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)
	NFTTokenURI(ctx context.Context, collection common.Address, tokenID *big.Int) (string, error)
	NFTBalance(ctx context.Context, collection, owner common.Address) (*big.Int, error)
	CallMethod(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, args ...interface{}) ([]interface{}, error)

	SignMessage(message []byte) (string, error)
	SignerAddress() (string, error)
	SendNative(ctx context.Context, recipient string, amount *big.Int) (*types.Transaction, error)
	SendToken(ctx context.Context, token, recipient string, amount *big.Int) (*types.Transaction, error)
	WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64, policy retry.Config) (*zksync.WaitResult, error)
}

var _ Backend = (*zksync.Client)(nil)
