package zksync

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/retry"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestBlockNumberAndBatch(t *testing.T) {
	node := newFakeNode(t)
	node.result("eth_blockNumber", "0x69")
	node.result("zks_L1BatchNumber", "0x1f4")

	client := newTestClient(t, node, "")
	ctx := context.Background()

	block, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(105), block)

	batch, err := client.L1BatchNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), batch)
}

func TestRPCErrorIsWrappedWithMethod(t *testing.T) {
	node := newFakeNode(t)
	node.handle("eth_blockNumber", func([]json.RawMessage) (interface{}, error) {
		return nil, errors.New("upstream unavailable")
	})

	client := newTestClient(t, node, "")

	_, err := client.BlockNumber(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eth_blockNumber failed")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestBlockByNumberDecodesZkSyncTransactions(t *testing.T) {
	node := newFakeNode(t)
	node.handle("eth_getBlockByNumber", func(params []json.RawMessage) (interface{}, error) {
		var number string
		_ = json.Unmarshal(params[0], &number)
		if number != "0x66" {
			return nil, nil
		}
		return map[string]interface{}{
			"number":        "0x66",
			"hash":          "0x00000000000000000000000000000000000000000000000000000000000000aa",
			"parentHash":    "0x0000000000000000000000000000000000000000000000000000000000000099",
			"timestamp":     "0x6500",
			"gasUsed":       "0x5208",
			"gasLimit":      "0xffffffff",
			"l1BatchNumber": "0x10",
			"transactions": []map[string]interface{}{{
				"hash":  "0x00000000000000000000000000000000000000000000000000000000000000bb",
				"from":  "0x000000000000000000000000000000000000aaaa",
				"to":    "0x000000000000000000000000000000000000bbbb",
				"value": "0x1f4",
				"input": "0x",
				"gas":   "0x5208",
				"nonce": "0x1",
				"type":  "0x71",
			}},
		}, nil
	})

	client := newTestClient(t, node, "")
	ctx := context.Background()

	block, err := client.BlockByNumber(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, uint64(102), uint64(block.Number))
	require.Len(t, block.Transactions, 1)

	tx := block.Transactions[0]
	assert.Equal(t, uint64(0x71), uint64(tx.Type))
	assert.True(t, tx.IsTo("0x000000000000000000000000000000000000BBBB"))
	assert.True(t, tx.IsFrom("0x000000000000000000000000000000000000aaaa"))
	assert.Equal(t, int64(500), tx.Value.ToInt().Int64())

	_, err = client.BlockByNumber(ctx, 103)
	assert.True(t, errors.Is(err, ethereum.NotFound))
}

func TestTransactionReceiptMissing(t *testing.T) {
	node := newFakeNode(t)
	node.result("eth_getTransactionReceipt", nil)

	client := newTestClient(t, node, "")

	receipt, err := client.TransactionReceipt(context.Background(), common.HexToHash("0x01"))
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestL1BatchDetails(t *testing.T) {
	node := newFakeNode(t)
	node.result("zks_getL1BatchDetails", map[string]interface{}{
		"number":        7,
		"timestamp":     1700000000,
		"l1TxCount":     1,
		"l2TxCount":     20,
		"status":        "verified",
		"commitTxHash":  "0x0000000000000000000000000000000000000000000000000000000000000001",
		"proveTxHash":   "0x0000000000000000000000000000000000000000000000000000000000000002",
		"executeTxHash": "0x0000000000000000000000000000000000000000000000000000000000000003",
	})

	client := newTestClient(t, node, "")

	details, err := client.L1BatchDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), details.Number)
	assert.True(t, details.IsExecuted())
	assert.Equal(t, "Executed", details.Stage())
}

func TestAllAccountBalancesAndBlockRange(t *testing.T) {
	node := newFakeNode(t)
	node.result("zks_getAllAccountBalances", map[string]string{
		"0x000000000000000000000000000000000000800a": "0xde0b6b3a7640000",
	})
	node.result("zks_getL1BatchBlockRange", []string{"0x10", "0x1a"})

	client := newTestClient(t, node, "")
	ctx := context.Background()

	balances, err := client.AllAccountBalances(ctx, common.HexToAddress("0x01"))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", balances[common.HexToAddress("0x800a")].String())

	first, last, err := client.L1BatchBlockRange(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), first)
	assert.Equal(t, uint64(26), last)
}

func TestTokenInfoJoinsFourReads(t *testing.T) {
	node := newFakeNode(t)
	node.handle("eth_call", func(params []json.RawMessage) (interface{}, error) {
		var msg struct {
			Input hexutil.Bytes `json:"input"`
			Data  hexutil.Bytes `json:"data"`
		}
		if err := json.Unmarshal(params[0], &msg); err != nil {
			return nil, err
		}

		input := msg.Input
		if len(input) == 0 {
			input = msg.Data
		}

		method, err := erc20ABI.MethodById(input[:4])
		if err != nil {
			return nil, err
		}

		var out []byte
		switch method.Name {
		case "name":
			out, err = method.Outputs.Pack("USD Coin")
		case "symbol":
			out, err = method.Outputs.Pack("USDC")
		case "decimals":
			out, err = method.Outputs.Pack(uint8(6))
		case "totalSupply":
			out, err = method.Outputs.Pack(big.NewInt(1_000_000))
		case "balanceOf":
			out, err = method.Outputs.Pack(big.NewInt(2_500_000))
		}
		if err != nil {
			return nil, err
		}
		return hexutil.Encode(out), nil
	})

	client := newTestClient(t, node, "")
	ctx := context.Background()
	token := common.HexToAddress("0x1d17CBcF0D6D143135aE902365D2E5e2A16538D4")

	info, err := client.TokenInfo(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "USD Coin", info.Name)
	assert.Equal(t, "USDC", info.Symbol)
	assert.Equal(t, uint8(6), info.Decimals)
	assert.Equal(t, "1000000", info.TotalSupply.String())
	assert.Equal(t, 4, node.callCount("eth_call"))

	balance, err := client.TokenBalance(ctx, token, common.HexToAddress("0x02"))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), balance.Decimals)
	assert.Equal(t, "2500000", balance.Raw.String())
}

func TestTokenInfoFailsWhenAnyReadFails(t *testing.T) {
	node := newFakeNode(t)
	node.handle("eth_call", func([]json.RawMessage) (interface{}, error) {
		return nil, errors.New("execution reverted")
	})

	client := newTestClient(t, node, "")

	_, err := client.TokenInfo(context.Background(), common.HexToAddress("0x03"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestSendWithoutKeyMakesNoCalls(t *testing.T) {
	node := newFakeNode(t)
	client := newTestClient(t, node, "")

	_, err := client.SendNative(context.Background(), "0x000000000000000000000000000000000000beef", big.NewInt(1))
	assert.True(t, errors.Is(err, zkerrors.ErrMissingCredential))

	_, err = client.SendToken(context.Background(), "0x1d17CBcF0D6D143135aE902365D2E5e2A16538D4", "0x000000000000000000000000000000000000beef", big.NewInt(1))
	assert.True(t, errors.Is(err, zkerrors.ErrMissingCredential))

	assert.Equal(t, 0, node.totalCalls())
}

func TestSendRejectsInvalidInputBeforeRPC(t *testing.T) {
	node := newFakeNode(t)
	client := newTestClient(t, node, testPrivateKey)

	_, err := client.SendNative(context.Background(), "0xnot-an-address", big.NewInt(1))
	assert.True(t, errors.Is(err, zkerrors.ErrInvalidAddress))

	_, err = client.SendNative(context.Background(), "0x000000000000000000000000000000000000beef", big.NewInt(-1))
	assert.True(t, errors.Is(err, zkerrors.ErrInvalidQuantity))

	assert.Equal(t, 0, node.totalCalls())
}

func TestSendNative(t *testing.T) {
	node := newFakeNode(t)
	node.result("eth_getTransactionCount", "0x3")
	node.result("eth_estimateGas", "0x5208")
	node.result("eth_maxPriorityFeePerGas", "0x0")
	node.result("eth_getBlockByNumber", map[string]interface{}{"baseFeePerGas": "0x2b275d0"})
	node.result("eth_sendRawTransaction", "0x00")

	client := newTestClient(t, node, testPrivateKey)

	tx, err := client.SendNative(context.Background(), "0x000000000000000000000000000000000000beef", big.NewInt(1000))
	require.NoError(t, err)

	assert.Equal(t, 1, node.callCount("eth_sendRawTransaction"))
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", tx.From)
	assert.Equal(t, uint64(3), tx.Nonce)
	assert.Equal(t, uint64(types.SepoliaChainID), tx.ChainID)
	assert.Equal(t, "1000", tx.Amount)
	assert.True(t, strings.HasPrefix(tx.ExplorerUrl, types.SepoliaExplorerUrl+"/tx/0x"))
}

func TestWaitForReceipt(t *testing.T) {
	node := newFakeNode(t)
	var attempts atomic.Int32
	node.handle("eth_getTransactionReceipt", func([]json.RawMessage) (interface{}, error) {
		if attempts.Add(1) < 3 {
			return nil, nil
		}
		return map[string]interface{}{
			"transactionHash": "0x0000000000000000000000000000000000000000000000000000000000000001",
			"blockHash":       "0x0000000000000000000000000000000000000000000000000000000000000002",
			"blockNumber":     "0x64",
			"from":            "0x000000000000000000000000000000000000aaaa",
			"status":          "0x1",
			"logs":            []interface{}{},
		}, nil
	})
	node.result("eth_blockNumber", "0x65")

	client := newTestClient(t, node, "")
	policy := retry.Config{InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond, MaxAttempts: 5}

	result, err := client.WaitForReceipt(context.Background(), common.HexToHash("0x01"), 2, policy)
	require.NoError(t, err)
	assert.Equal(t, types.TxDone, result.Status)
	assert.Equal(t, uint64(2), result.Confirmations)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestWaitForReceiptPendingWhenBudgetExhausted(t *testing.T) {
	node := newFakeNode(t)
	node.result("eth_getTransactionReceipt", nil)

	client := newTestClient(t, node, "")
	policy := retry.Config{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, MaxAttempts: 3}

	result, err := client.WaitForReceipt(context.Background(), common.HexToHash("0x01"), 1, policy)
	require.NoError(t, err)
	assert.Equal(t, types.TxPending, result.Status)
	assert.Nil(t, result.Receipt)
	assert.Equal(t, 3, node.callCount("eth_getTransactionReceipt"))
}

func TestConnectionStatusAfterClose(t *testing.T) {
	node := newFakeNode(t)
	client := newTestClient(t, node, "")

	assert.True(t, client.ConnectionStatus().Healthy)

	client.Close()
	status := client.ConnectionStatus()
	assert.False(t, status.Healthy)
	assert.Equal(t, "client closed", status.LastError)
}
