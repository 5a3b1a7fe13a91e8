package trigger

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Provider is the chain read surface a Poller needs. *zksync.Client implements it.
type Provider interface {
	BlockNumber(ctx context.Context) (uint64, error)
	L1BatchNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number uint64) (*types.Block, error)
	L1BatchDetails(ctx context.Context, batch uint64) (*types.L1BatchDetails, error)
	// TransactionReceipt returns nil while the transaction is not mined.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error)
	BalanceAt(ctx context.Context, address common.Address, block *big.Int) (*big.Int, error)
}
