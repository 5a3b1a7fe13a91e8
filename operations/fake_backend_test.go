package operations

import (
	"context"
	"io"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/retry"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// fakeBackend answers from fixed fields; anything unset fails with ErrNotImplemented.
type fakeBackend struct {
	blockNumber uint64
	batchNumber uint64
	balance     *big.Int
	nonce       uint64
	pending     uint64
	code        map[common.Address][]byte
	gasPrice    *big.Int
	gas         uint64
	logs        []ethtypes.Log
	token       *zksync.TokenInfo
	tokenBal    *zksync.TokenBalance
	batch       *types.L1BatchDetails
	paymaster   *common.Address
	callResult  []interface{}
	sent        *types.Transaction
	waitResult  *zksync.WaitResult
	signature   string

	lastQuery  ethereum.FilterQuery
	lastCall   ethereum.CallMsg
	lastSend   *big.Int
	lastMethod string
	lastArgs   []interface{}
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) { return f.blockNumber, nil }

func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	if f.balance == nil {
		return nil, zkerrors.ErrNotImplemented
	}
	return f.balance, nil
}

func (f *fakeBackend) NonceAt(context.Context, common.Address, *big.Int) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.pending, nil
}

func (f *fakeBackend) CodeAt(_ context.Context, address common.Address, _ *big.Int) ([]byte, error) {
	return f.code[address], nil
}

func (f *fakeBackend) BlockByNumber(_ context.Context, number uint64) (*types.Block, error) {
	return &types.Block{Number: hexutil.Uint64(number)}, nil
}

func (f *fakeBackend) TransactionByHash(context.Context, common.Hash) (*types.RPCTransaction, error) {
	return nil, nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, nil
}

func (f *fakeBackend) FilterLogs(_ context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error) {
	f.lastQuery = query
	return f.logs, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	if f.gasPrice == nil {
		return nil, zkerrors.ErrNotImplemented
	}
	return f.gasPrice, nil
}

func (f *fakeBackend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.lastCall = msg
	return f.gas, nil
}

func (f *fakeBackend) L1BatchNumber(context.Context) (uint64, error) { return f.batchNumber, nil }

func (f *fakeBackend) L1BatchDetails(context.Context, uint64) (*types.L1BatchDetails, error) {
	if f.batch == nil {
		return nil, zkerrors.ErrNotImplemented
	}
	return f.batch, nil
}

func (f *fakeBackend) BlockDetails(context.Context, uint64) (*types.BlockDetails, error) {
	return nil, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) TransactionDetails(context.Context, common.Hash) (*types.TransactionDetails, error) {
	return nil, nil
}

func (f *fakeBackend) FeeParams(context.Context) (types.FeeParams, error) {
	return types.FeeParams{"V2": map[string]interface{}{}}, nil
}

func (f *fakeBackend) BridgeContracts(context.Context) (*types.BridgeContracts, error) {
	return &types.BridgeContracts{}, nil
}

func (f *fakeBackend) MainContract(context.Context) (common.Address, error) {
	return common.Address{}, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) TestnetPaymaster(context.Context) (*common.Address, error) {
	return f.paymaster, nil
}

func (f *fakeBackend) BaseTokenL1Address(context.Context) (common.Address, error) {
	return common.Address{}, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) L2ToL1LogProof(context.Context, common.Hash, *uint64) (*types.LogProof, error) {
	return nil, nil
}

func (f *fakeBackend) AllAccountBalances(context.Context, common.Address) (map[common.Address]*big.Int, error) {
	return map[common.Address]*big.Int{}, nil
}

func (f *fakeBackend) L1BatchBlockRange(context.Context, uint64) (uint64, uint64, error) {
	return 0, 0, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) TokenInfo(context.Context, common.Address) (*zksync.TokenInfo, error) {
	if f.token == nil {
		return nil, zkerrors.ErrNotImplemented
	}
	return f.token, nil
}

func (f *fakeBackend) TokenBalance(context.Context, common.Address, common.Address) (*zksync.TokenBalance, error) {
	if f.tokenBal == nil {
		return nil, zkerrors.ErrNotImplemented
	}
	return f.tokenBal, nil
}

func (f *fakeBackend) Allowance(context.Context, common.Address, common.Address, common.Address) (*big.Int, error) {
	return nil, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) NFTOwner(context.Context, common.Address, *big.Int) (common.Address, error) {
	return common.Address{}, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) NFTTokenURI(context.Context, common.Address, *big.Int) (string, error) {
	return "", zkerrors.ErrNotImplemented
}

func (f *fakeBackend) NFTBalance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return nil, zkerrors.ErrNotImplemented
}

func (f *fakeBackend) CallMethod(_ context.Context, _ abi.ABI, _ common.Address, method string, args ...interface{}) ([]interface{}, error) {
	f.lastMethod = method
	f.lastArgs = args
	return f.callResult, nil
}

func (f *fakeBackend) SignMessage([]byte) (string, error) {
	if f.signature == "" {
		return "", zkerrors.ErrMissingCredential
	}
	return f.signature, nil
}

func (f *fakeBackend) SignerAddress() (string, error) {
	if f.signature == "" {
		return "", zkerrors.ErrMissingCredential
	}
	return "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", nil
}

func (f *fakeBackend) SendNative(_ context.Context, recipient string, amount *big.Int) (*types.Transaction, error) {
	return f.send(recipient, amount)
}

func (f *fakeBackend) SendToken(_ context.Context, _ string, recipient string, amount *big.Int) (*types.Transaction, error) {
	return f.send(recipient, amount)
}

func (f *fakeBackend) send(recipient string, amount *big.Int) (*types.Transaction, error) {
	if f.sent == nil {
		return nil, zkerrors.ErrMissingCredential
	}
	f.lastSend = amount
	tx := *f.sent
	tx.Recipient = recipient
	tx.Amount = amount.String()
	return &tx, nil
}

func (f *fakeBackend) WaitForReceipt(context.Context, common.Hash, uint64, retry.Config) (*zksync.WaitResult, error) {
	if f.waitResult == nil {
		return nil, zkerrors.ErrNotImplemented
	}
	return f.waitResult, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
