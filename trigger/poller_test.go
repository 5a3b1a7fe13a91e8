package trigger

import (
	"context"
	"math/big"
	"testing"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/Velocity-BPA/zksync-lib/cursorstore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watched = "0x000000000000000000000000000000000000beef"

func newTestPoller(t *testing.T, cfg Config, provider Provider) (*Poller, *cursorstore.MemoryStore) {
	store := cursorstore.NewMemoryStore()
	poller, err := NewPoller(cfg, provider, store, quietLogger())
	require.NoError(t, err)
	return poller, store
}

func storedUint(t *testing.T, store cursorstore.Store, key string) uint64 {
	var value uint64
	found, err := store.Get(context.Background(), key, &value)
	require.NoError(t, err)
	require.True(t, found, "key %s not stored", key)
	return value
}

func seed(t *testing.T, store cursorstore.Store, key string, value interface{}) {
	require.NoError(t, store.Set(context.Background(), key, value))
}

func blockNumbers(events []types.Event) []uint64 {
	var numbers []uint64
	for _, e := range events {
		numbers = append(numbers, e.BlockNumber)
	}
	return numbers
}

func TestNewBlockPrimesWithoutBacklog(t *testing.T) {
	provider := newFakeProvider()
	provider.setTip(100)
	poller, store := newTestPoller(t, Config{Kind: types.KindNewBlock}, provider)
	ctx := context.Background()

	events, err := poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, uint64(99), storedUint(t, store, keyLastBlock))
	assert.Empty(t, provider.blockCalls)

	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{100}, blockNumbers(events))
	assert.Equal(t, uint64(100), storedUint(t, store, keyLastBlock))

	provider.setTip(103)
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{101, 102, 103}, blockNumbers(events))
	assert.Equal(t, types.KindNewBlock, events[0].Kind)
	assert.Equal(t, uint64(103), storedUint(t, store, keyLastBlock))
}

func TestPollIsNoopWhenTipDidNotAdvance(t *testing.T) {
	provider := newFakeProvider()
	provider.setTip(105)
	poller, store := newTestPoller(t, Config{Kind: types.KindNewBlock}, provider)
	seed(t, store, keyLastBlock, uint64(105))

	events, err := poller.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, provider.blockCalls)
	assert.Equal(t, uint64(105), storedUint(t, store, keyLastBlock))

	// a stale tip never regresses the watermark
	provider.setTip(90)
	events, err = poller.Poll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, uint64(105), storedUint(t, store, keyLastBlock))
}

func TestFailedScanLeavesWatermark(t *testing.T) {
	provider := newFakeProvider()
	provider.setTip(105)
	provider.failBlocks[103] = errors.New("node timeout")
	poller, store := newTestPoller(t, Config{Kind: types.KindNewBlock}, provider)
	seed(t, store, keyLastBlock, uint64(100))
	ctx := context.Background()

	_, err := poller.Poll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node timeout")
	assert.Equal(t, uint64(100), storedUint(t, store, keyLastBlock))

	delete(provider.failBlocks, 103)
	provider.setTip(106)
	events, err := poller.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{101, 102, 103, 104, 105, 106}, blockNumbers(events))
	assert.Equal(t, uint64(106), storedUint(t, store, keyLastBlock))
}

func TestFailedDeliveryLeavesWatermark(t *testing.T) {
	provider := newFakeProvider()
	provider.setTip(102)
	poller, store := newTestPoller(t, Config{Kind: types.KindNewBlock}, provider)
	seed(t, store, keyLastBlock, uint64(100))
	ctx := context.Background()

	_, err := poller.PollWith(ctx, func(context.Context, []types.Event) error {
		return errors.New("sink down")
	})
	require.Error(t, err)
	assert.Equal(t, uint64(100), storedUint(t, store, keyLastBlock))

	var delivered []types.Event
	_, err = poller.PollWith(ctx, func(_ context.Context, events []types.Event) error {
		delivered = events
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{101, 102}, blockNumbers(delivered))
	assert.Equal(t, uint64(102), storedUint(t, store, keyLastBlock))
}

func TestNewL1Batch(t *testing.T) {
	provider := newFakeProvider()
	provider.setBatchTip(20)
	provider.batches[21] = &types.L1BatchDetails{Number: 21, Timestamp: 1700000000, L1TxCount: 2, L2TxCount: 30, Status: types.BatchStatusSealed}
	poller, store := newTestPoller(t, Config{Kind: types.KindNewL1Batch}, provider)
	seed(t, store, keyLastL1Batch, uint64(20))

	provider.setBatchTip(21)
	events, err := poller.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(21), events[0].BatchNumber)
	assert.Equal(t, 32, events[0].TransactionCount)
	assert.Equal(t, uint64(21), storedUint(t, store, keyLastL1Batch))
}

func TestEthReceivedAndSent(t *testing.T) {
	other := common.HexToAddress("0x000000000000000000000000000000000000aaaa")
	me := common.HexToAddress(watched)

	provider := newFakeProvider()
	provider.setTip(11)
	provider.blocks[11] = &types.Block{
		Number: 11,
		Transactions: []types.RPCTransaction{
			{Hash: common.HexToHash("0x01"), From: other, To: &me, Value: (*hexutil.Big)(big.NewInt(1500000000000000000))},
			{Hash: common.HexToHash("0x02"), From: me, To: &other, Value: (*hexutil.Big)(big.NewInt(7))},
			{Hash: common.HexToHash("0x03"), From: other, To: nil},
		},
	}

	// address matching ignores case
	received, store := newTestPoller(t, Config{Kind: types.KindEthReceived, Address: "0x000000000000000000000000000000000000BEEF"}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(10))

	events, err := received.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, common.HexToHash("0x01").Hex(), events[0].TxHash)
	assert.Equal(t, "1500000000000000000", events[0].Value)
	assert.Equal(t, "1.5", events[0].ValueFormatted)

	sent, store := newTestPoller(t, Config{Kind: types.KindEthSent, Address: watched}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(10))

	events, err = sent.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.KindEthSent, events[0].Kind)
	assert.Equal(t, other.Hex(), events[0].To)
	assert.Equal(t, "0.000000000000000007", events[0].ValueFormatted)
}

func transferLog(contract common.Address, block uint64, topics ...common.Hash) ethtypes.Log {
	return ethtypes.Log{
		Address:     contract,
		Topics:      append([]common.Hash{utils.TransferTopic}, topics...),
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
	}
}

func TestTokenTransferScenario(t *testing.T) {
	contract := common.HexToAddress("0x0000000000000000000000000000000000c0ffee")
	from := common.HexToAddress("0xAAA0000000000000000000000000000000000AAA")
	to := common.HexToAddress("0xBBB0000000000000000000000000000000000BBB")

	log := transferLog(contract, 103, utils.AddressToTopic(from), utils.AddressToTopic(to))
	log.Data = common.LeftPadBytes(big.NewInt(500).Bytes(), 32)

	provider := newFakeProvider()
	provider.setTip(105)
	provider.logs = []ethtypes.Log{log}

	poller, store := newTestPoller(t, Config{Kind: types.KindTokenTransfer, Contract: contract.Hex()}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(100))

	events, err := poller.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.KindTokenTransfer, events[0].Kind)
	assert.Equal(t, from.Hex(), events[0].From)
	assert.Equal(t, to.Hex(), events[0].To)
	assert.Equal(t, "500", events[0].Value)
	assert.Equal(t, uint64(103), events[0].BlockNumber)
	assert.Equal(t, uint64(105), storedUint(t, store, keyLastCheckedBlock))

	require.Len(t, provider.queries, 1)
	assert.Equal(t, uint64(101), provider.queries[0].FromBlock.Uint64())
	assert.Equal(t, uint64(105), provider.queries[0].ToBlock.Uint64())
	assert.Equal(t, []common.Address{contract}, provider.queries[0].Addresses)
}

func TestTransferLogsSplitWideRanges(t *testing.T) {
	contract := common.HexToAddress("0x0000000000000000000000000000000000c0ffee")
	a := utils.AddressToTopic(common.HexToAddress("0x0a"))
	b := utils.AddressToTopic(common.HexToAddress("0x0b"))

	provider := newFakeProvider()
	provider.setTip(25100)
	provider.logs = []ethtypes.Log{
		transferLog(contract, 150, a, b),
		transferLog(contract, 10100, a, b),
		transferLog(contract, 10101, a, b),
		transferLog(contract, 25100, a, b),
	}

	poller, store := newTestPoller(t, Config{Kind: types.KindTokenTransfer, Contract: contract.Hex()}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(100))

	events, err := poller.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{150, 10100, 10101, 25100}, blockNumbers(events))
	assert.Equal(t, uint64(25100), storedUint(t, store, keyLastCheckedBlock))

	require.Len(t, provider.queries, 3)
	next := uint64(101)
	for _, query := range provider.queries {
		from, to := query.FromBlock.Uint64(), query.ToBlock.Uint64()
		assert.Equal(t, next, from)
		assert.Less(t, to-from, uint64(utils.MaxLogRange))
		next = to + 1
	}
	assert.Equal(t, uint64(25101), next)
}

func TestTransferLogsFailedWindowLeavesWatermark(t *testing.T) {
	contract := common.HexToAddress("0x0000000000000000000000000000000000c0ffee")

	provider := newFakeProvider()
	provider.setTip(25100)
	provider.failLogs[10101] = errors.New("query returned more than 10000 results")

	poller, store := newTestPoller(t, Config{Kind: types.KindContractEvent, Contract: contract.Hex(), EventABI: "event Ping(uint256 id)"}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(100))

	_, err := poller.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocks 10101-20100")
	assert.Equal(t, uint64(100), storedUint(t, store, keyLastCheckedBlock))
	assert.Len(t, provider.queries, 2)
}

func TestTransferTopicCountSelectsStandard(t *testing.T) {
	contract := common.HexToAddress("0x0000000000000000000000000000000000c0ffee")
	a := utils.AddressToTopic(common.HexToAddress("0x0a"))
	b := utils.AddressToTopic(common.HexToAddress("0x0b"))
	c := utils.AddressToTopic(common.HexToAddress("0x0c"))

	provider := newFakeProvider()
	provider.setTip(5)
	provider.logs = []ethtypes.Log{
		transferLog(contract, 2, a, b),
		transferLog(contract, 3, a, c, common.BigToHash(big.NewInt(42))),
		transferLog(contract, 4, c, b, common.BigToHash(big.NewInt(43))),
	}

	tokens, store := newTestPoller(t, Config{Kind: types.KindTokenTransfer, Contract: contract.Hex()}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(1))
	events, err := tokens.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, blockNumbers(events))

	nfts, store := newTestPoller(t, Config{Kind: types.KindNftTransfer, Contract: contract.Hex(), FilterAddress: common.HexToAddress("0x0c").Hex()}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(1))
	events, err = nfts.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "42", events[0].TokenID)
	assert.Equal(t, "43", events[1].TokenID)

	filtered, store := newTestPoller(t, Config{Kind: types.KindNftTransfer, Contract: contract.Hex(), FilterAddress: common.HexToAddress("0x0b").Hex()}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(1))
	events, err = filtered.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "43", events[0].TokenID)
}

func TestContractEventSkipsUndecodableLogs(t *testing.T) {
	contract := common.HexToAddress("0x0000000000000000000000000000000000d00d00")
	event, err := ParseEventInterface("event Deposit(address indexed user, uint256 amount)")
	require.NoError(t, err)

	user := common.HexToAddress("0x000000000000000000000000000000000000abcd")
	good := ethtypes.Log{
		Address:     contract,
		Topics:      []common.Hash{event.ID, utils.AddressToTopic(user)},
		Data:        common.LeftPadBytes(big.NewInt(77).Bytes(), 32),
		BlockNumber: 8,
		Index:       1,
	}
	truncated := good
	truncated.BlockNumber = 9
	truncated.Data = []byte{0x01}

	provider := newFakeProvider()
	provider.setTip(10)
	provider.logs = []ethtypes.Log{good, truncated}

	poller, store := newTestPoller(t, Config{
		Kind:     types.KindContractEvent,
		Contract: contract.Hex(),
		EventABI: "event Deposit(address indexed user, uint256 amount)",
	}, provider)
	seed(t, store, keyLastCheckedBlock, uint64(5))

	events, err := poller.Poll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Deposit", events[0].EventName)
	assert.Equal(t, user.Hex(), events[0].Args["user"])
	assert.Equal(t, "77", events[0].Args["amount"])
	assert.Equal(t, uint64(10), storedUint(t, store, keyLastCheckedBlock))
}

func TestTransactionConfirmedLatchesOnce(t *testing.T) {
	hash := common.HexToHash("0x1234")
	provider := newFakeProvider()
	provider.setTip(100)

	poller, store := newTestPoller(t, Config{
		Kind:          types.KindTransactionConfirmed,
		TxHash:        hash.Hex(),
		Confirmations: 3,
	}, provider)
	ctx := context.Background()

	events, err := poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	provider.receipts[hash] = &types.Receipt{TransactionHash: hash, BlockNumber: 100, Status: 1}
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	provider.setTip(102)
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(3), events[0].Confirmations)
	assert.Equal(t, string(types.TxDone), events[0].Status)

	var latched bool
	found, err := store.Get(ctx, "tx_"+hash.Hex(), &latched)
	require.NoError(t, err)
	assert.True(t, found && latched)

	for tip := uint64(103); tip < 106; tip++ {
		provider.setTip(tip)
		events, err = poller.Poll(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	}
}

func executedBatch(number uint64) *types.L1BatchDetails {
	execute := common.BigToHash(new(big.Int).SetUint64(number))
	return &types.L1BatchDetails{Number: number, Status: types.BatchStatusVerified, ExecuteTxHash: &execute}
}

func TestBlockFinalizedLatchesPerBatch(t *testing.T) {
	provider := newFakeProvider()
	provider.setBatchTip(50)
	provider.batches[45] = executedBatch(45)
	// verified without an execute transaction is not final
	provider.batches[46] = &types.L1BatchDetails{Number: 46, Status: types.BatchStatusVerified}

	poller, store := newTestPoller(t, Config{Kind: types.KindBlockFinalized}, provider)
	ctx := context.Background()

	events, err := poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, uint64(40), storedUint(t, store, keyLastCheckedBatch))

	provider.setBatchTip(51)
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(45), events[0].BatchNumber)
	assert.Equal(t, common.BigToHash(big.NewInt(45)).Hex(), events[0].ExecuteTxHash)
	assert.Equal(t, uint64(51), storedUint(t, store, keyLastCheckedBatch))

	provider.batches[46] = executedBatch(46)
	provider.setBatchTip(52)
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(46), events[0].BatchNumber)

	provider.setBatchTip(53)
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestBlockFinalizedBacklogIsConfigurable(t *testing.T) {
	provider := newFakeProvider()
	provider.setBatchTip(50)

	poller, store := newTestPoller(t, Config{Kind: types.KindBlockFinalized, FinalizedBacklog: 3}, provider)

	_, err := poller.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(47), storedUint(t, store, keyLastCheckedBatch))
}

func TestBalanceChange(t *testing.T) {
	provider := newFakeProvider()
	provider.balance = big.NewInt(1000000000000000000)

	poller, store := newTestPoller(t, Config{Kind: types.KindBalanceChange, Address: watched}, provider)
	ctx := context.Background()

	events, err := poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	provider.balance = big.NewInt(500000000000000000)
	events, err = poller.Poll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "1000000000000000000", events[0].PreviousBalance)
	assert.Equal(t, "500000000000000000", events[0].CurrentBalance)
	assert.Equal(t, "-500000000000000000", events[0].Delta)
	assert.Equal(t, "-0.5", events[0].DeltaFormatted)

	var stored string
	_, err = store.Get(ctx, keyLastBalance, &stored)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", stored)

	provider.balance = nil
	_, err = poller.Poll(ctx)
	require.Error(t, err)
	_, err = store.Get(ctx, keyLastBalance, &stored)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", stored)
}

func TestNewPollerValidation(t *testing.T) {
	provider := newFakeProvider()
	store := cursorstore.NewMemoryStore()

	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown kind", Config{Kind: "newEpoch"}, zkerrors.ErrInvalidTrigger},
		{"missing address", Config{Kind: types.KindEthReceived}, zkerrors.ErrInvalidTrigger},
		{"bad address", Config{Kind: types.KindBalanceChange, Address: "0x1234"}, zkerrors.ErrInvalidAddress},
		{"bad filter", Config{Kind: types.KindTokenTransfer, Contract: watched, FilterAddress: "nope"}, zkerrors.ErrInvalidAddress},
		{"missing abi", Config{Kind: types.KindContractEvent, Contract: watched}, zkerrors.ErrInvalidTrigger},
		{"bad hash", Config{Kind: types.KindTransactionConfirmed, TxHash: "0x12"}, zkerrors.ErrInvalidParameter},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPoller(tc.cfg, provider, store, quietLogger())
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}
