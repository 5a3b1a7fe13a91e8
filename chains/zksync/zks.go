package zksync

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// L1BatchNumber returns the latest L1 batch number.
func (c *Client) L1BatchNumber(ctx context.Context) (uint64, error) {
	var number hexutil.Uint64
	if err := c.call(ctx, &number, "zks_L1BatchNumber"); err != nil {
		return 0, err
	}
	return uint64(number), nil
}

// L1BatchDetails returns the details of an L1 batch.
//
// Returns:
// - *types.L1BatchDetails: the batch details.
// - error: ethereum.NotFound when the batch does not exist, or the RPC error.
func (c *Client) L1BatchDetails(ctx context.Context, batch uint64) (*types.L1BatchDetails, error) {
	var details *types.L1BatchDetails
	if err := c.call(ctx, &details, "zks_getL1BatchDetails", batch); err != nil {
		return nil, err
	}
	if details == nil {
		return nil, errors.Wrapf(ethereum.NotFound, "l1 batch %d", batch)
	}
	return details, nil
}

// BlockDetails returns zkSync specific details of an L2 block.
func (c *Client) BlockDetails(ctx context.Context, block uint64) (*types.BlockDetails, error) {
	var details *types.BlockDetails
	if err := c.call(ctx, &details, "zks_getBlockDetails", block); err != nil {
		return nil, err
	}
	if details == nil {
		return nil, errors.Wrapf(ethereum.NotFound, "block %d", block)
	}
	return details, nil
}

// TransactionDetails returns the zkSync lifecycle of a transaction, or nil when unknown.
func (c *Client) TransactionDetails(ctx context.Context, hash common.Hash) (*types.TransactionDetails, error) {
	var details *types.TransactionDetails
	if err := c.call(ctx, &details, "zks_getTransactionDetails", hash); err != nil {
		return nil, err
	}
	return details, nil
}

// FeeParams returns the current fee model parameters.
func (c *Client) FeeParams(ctx context.Context) (types.FeeParams, error) {
	var params types.FeeParams
	if err := c.call(ctx, &params, "zks_getFeeParams"); err != nil {
		return nil, err
	}
	return params, nil
}

// BridgeContracts returns the default bridge addresses.
func (c *Client) BridgeContracts(ctx context.Context) (*types.BridgeContracts, error) {
	var contracts types.BridgeContracts
	if err := c.call(ctx, &contracts, "zks_getBridgeContracts"); err != nil {
		return nil, err
	}
	return &contracts, nil
}

// MainContract returns the address of the zkSync diamond proxy on L1.
func (c *Client) MainContract(ctx context.Context) (common.Address, error) {
	var address common.Address
	if err := c.call(ctx, &address, "zks_getMainContract"); err != nil {
		return common.Address{}, err
	}
	return address, nil
}

// TestnetPaymaster returns the testnet paymaster address, or nil on networks without one.
func (c *Client) TestnetPaymaster(ctx context.Context) (*common.Address, error) {
	var address *common.Address
	if err := c.call(ctx, &address, "zks_getTestnetPaymaster"); err != nil {
		return nil, err
	}
	return address, nil
}

// BaseTokenL1Address returns the L1 address of the chain's base token.
func (c *Client) BaseTokenL1Address(ctx context.Context) (common.Address, error) {
	var address common.Address
	if err := c.call(ctx, &address, "zks_getBaseTokenL1Address"); err != nil {
		return common.Address{}, err
	}
	return address, nil
}

// L2ToL1LogProof returns the Merkle proof of an L2→L1 log emitted by a transaction.
//
// Parameters:
// - ctx: the context for managing the request.
// - hash: the L2 transaction hash.
// - index: the log index within the transaction, nil for the first log.
//
// Returns:
// - *types.LogProof: the proof, nil when the batch is not yet sealed or the log does not exist.
// - error: the RPC error.
func (c *Client) L2ToL1LogProof(ctx context.Context, hash common.Hash, index *uint64) (*types.LogProof, error) {
	args := []interface{}{hash}
	if index != nil {
		args = append(args, *index)
	}

	var proof *types.LogProof
	if err := c.call(ctx, &proof, "zks_getL2ToL1LogProof", args...); err != nil {
		return nil, err
	}
	return proof, nil
}

// AllAccountBalances returns every non-zero token balance of address keyed by token address.
func (c *Client) AllAccountBalances(ctx context.Context, address common.Address) (map[common.Address]*big.Int, error) {
	var raw map[common.Address]*hexutil.Big
	if err := c.call(ctx, &raw, "zks_getAllAccountBalances", address); err != nil {
		return nil, err
	}

	balances := make(map[common.Address]*big.Int, len(raw))
	for token, balance := range raw {
		if balance == nil {
			continue
		}
		balances[token] = balance.ToInt()
	}
	return balances, nil
}

// L1BatchBlockRange returns the first and last L2 block of a batch.
func (c *Client) L1BatchBlockRange(ctx context.Context, batch uint64) (uint64, uint64, error) {
	var blockRange *[2]hexutil.Uint64
	if err := c.call(ctx, &blockRange, "zks_getL1BatchBlockRange", batch); err != nil {
		return 0, 0, err
	}
	if blockRange == nil {
		return 0, 0, errors.Wrapf(ethereum.NotFound, "l1 batch %d", batch)
	}
	return uint64(blockRange[0]), uint64(blockRange[1]), nil
}
