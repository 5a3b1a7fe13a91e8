package trigger

import (
	"context"
	"io"
	"math/big"
	"sync"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// fakeProvider serves a scripted chain.
type fakeProvider struct {
	mu sync.Mutex

	tip      uint64
	batchTip uint64
	balance  *big.Int

	blocks   map[uint64]*types.Block
	batches  map[uint64]*types.L1BatchDetails
	receipts map[common.Hash]*types.Receipt
	logs     []ethtypes.Log

	failBlocks  map[uint64]error
	failBatches map[uint64]error
	failLogs    map[uint64]error

	blockCalls []uint64
	batchCalls []uint64
	queries    []ethereum.FilterQuery
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		balance:     big.NewInt(0),
		blocks:      make(map[uint64]*types.Block),
		batches:     make(map[uint64]*types.L1BatchDetails),
		receipts:    make(map[common.Hash]*types.Receipt),
		failBlocks:  make(map[uint64]error),
		failBatches: make(map[uint64]error),
		failLogs:    make(map[uint64]error),
	}
}

func (f *fakeProvider) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tip, nil
}

func (f *fakeProvider) L1BatchNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchTip, nil
}

func (f *fakeProvider) BlockByNumber(_ context.Context, number uint64) (*types.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.blockCalls = append(f.blockCalls, number)
	if err := f.failBlocks[number]; err != nil {
		return nil, err
	}
	if block, ok := f.blocks[number]; ok {
		return block, nil
	}
	return &types.Block{
		Number: hexutil.Uint64(number),
		Hash:   common.BigToHash(new(big.Int).SetUint64(number)),
	}, nil
}

func (f *fakeProvider) L1BatchDetails(_ context.Context, batch uint64) (*types.L1BatchDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchCalls = append(f.batchCalls, batch)
	if err := f.failBatches[batch]; err != nil {
		return nil, err
	}
	if details, ok := f.batches[batch]; ok {
		return details, nil
	}
	return &types.L1BatchDetails{Number: batch, Status: types.BatchStatusSealed}, nil
}

func (f *fakeProvider) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipts[hash], nil
}

func (f *fakeProvider) FilterLogs(_ context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	if err := f.failLogs[query.FromBlock.Uint64()]; err != nil {
		return nil, err
	}

	var out []ethtypes.Log
	for _, log := range f.logs {
		if log.BlockNumber < query.FromBlock.Uint64() || log.BlockNumber > query.ToBlock.Uint64() {
			continue
		}
		if len(query.Addresses) > 0 && log.Address != query.Addresses[0] {
			continue
		}
		if len(query.Topics) > 0 && (len(log.Topics) == 0 || log.Topics[0] != query.Topics[0][0]) {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (f *fakeProvider) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.balance == nil {
		return nil, errors.New("balance unavailable")
	}
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeProvider) setTip(tip uint64) {
	f.mu.Lock()
	f.tip = tip
	f.mu.Unlock()
}

func (f *fakeProvider) setBatchTip(tip uint64) {
	f.mu.Lock()
	f.batchTip = tip
	f.mu.Unlock()
}

func (f *fakeProvider) resetCalls() {
	f.mu.Lock()
	f.blockCalls = nil
	f.batchCalls = nil
	f.queries = nil
	f.mu.Unlock()
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
