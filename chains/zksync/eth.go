package zksync

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// ChainID returns the chain ID reported by the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.withEth(ctx, "eth_chainId", func(ctx context.Context, client *ethclient.Client) (err error) {
		chainID, err = client.ChainID(ctx)
		return err
	})
	return chainID, err
}

// BlockNumber returns the latest L2 block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var number uint64
	err := c.withEth(ctx, "eth_blockNumber", func(ctx context.Context, client *ethclient.Client) (err error) {
		number, err = client.BlockNumber(ctx)
		return err
	})
	return number, err
}

// BalanceAt returns the ETH balance of address in wei. A nil block means latest.
func (c *Client) BalanceAt(ctx context.Context, address common.Address, block *big.Int) (*big.Int, error) {
	var balance *big.Int
	err := c.withEth(ctx, "eth_getBalance", func(ctx context.Context, client *ethclient.Client) (err error) {
		balance, err = client.BalanceAt(ctx, address, block)
		return err
	})
	return balance, err
}

// NonceAt returns the committed nonce of address. A nil block means latest.
func (c *Client) NonceAt(ctx context.Context, address common.Address, block *big.Int) (uint64, error) {
	var nonce uint64
	err := c.withEth(ctx, "eth_getTransactionCount", func(ctx context.Context, client *ethclient.Client) (err error) {
		nonce, err = client.NonceAt(ctx, address, block)
		return err
	})
	return nonce, err
}

// PendingNonceAt returns the nonce of address including pending transactions.
func (c *Client) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64
	err := c.withEth(ctx, "eth_getTransactionCount", func(ctx context.Context, client *ethclient.Client) (err error) {
		nonce, err = client.PendingNonceAt(ctx, address)
		return err
	})
	return nonce, err
}

// CodeAt returns the deployed bytecode at address. A nil block means latest.
func (c *Client) CodeAt(ctx context.Context, address common.Address, block *big.Int) ([]byte, error) {
	var code []byte
	err := c.withEth(ctx, "eth_getCode", func(ctx context.Context, client *ethclient.Client) (err error) {
		code, err = client.CodeAt(ctx, address, block)
		return err
	})
	return code, err
}

// BlockByNumber returns the L2 block with full transaction objects.
// zkSync transaction types are decoded as raw fields rather than through go-ethereum's typed envelope.
//
// Returns:
// - *types.Block: the block.
// - error: ethereum.NotFound when the node does not know the block, or the RPC error.
func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*types.Block, error) {
	var block *types.Block
	if err := c.call(ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(number), true); err != nil {
		return nil, err
	}
	if block == nil {
		return nil, errors.Wrapf(ethereum.NotFound, "block %d", number)
	}
	return block, nil
}

// TransactionByHash returns the transaction, or nil when the node does not know it.
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.RPCTransaction, error) {
	var tx *types.RPCTransaction
	if err := c.call(ctx, &tx, "eth_getTransactionByHash", hash); err != nil {
		return nil, err
	}
	return tx, nil
}

// TransactionReceipt returns the receipt, or nil while the transaction is not yet mined.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	if err := c.call(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return receipt, nil
}

// FilterLogs executes a log filter query.
func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error) {
	var logs []ethtypes.Log
	err := c.withEth(ctx, "eth_getLogs", func(ctx context.Context, client *ethclient.Client) (err error) {
		logs, err = client.FilterLogs(ctx, query)
		return err
	})
	return logs, err
}

// SuggestGasPrice returns the current L2 gas price in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.withEth(ctx, "eth_gasPrice", func(ctx context.Context, client *ethclient.Client) (err error) {
		price, err = client.SuggestGasPrice(ctx)
		return err
	})
	return price, err
}

// SuggestGasTipCap returns the suggested priority fee in wei.
func (c *Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var tip *big.Int
	err := c.withEth(ctx, "eth_maxPriorityFeePerGas", func(ctx context.Context, client *ethclient.Client) (err error) {
		tip, err = client.SuggestGasTipCap(ctx)
		return err
	})
	return tip, err
}

// EstimateGas estimates the gas needed to execute msg.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := c.withEth(ctx, "eth_estimateGas", func(ctx context.Context, client *ethclient.Client) (err error) {
		gas, err = client.EstimateGas(ctx, msg)
		return err
	})
	return gas, err
}

// CallContract executes a read-only call. A nil block means latest.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	var result []byte
	err := c.withEth(ctx, "eth_call", func(ctx context.Context, client *ethclient.Client) (err error) {
		result, err = client.CallContract(ctx, msg, block)
		return err
	})
	return result, err
}

// LatestBaseFee returns the base fee of the latest block.
func (c *Client) LatestBaseFee(ctx context.Context) (*big.Int, error) {
	var header *struct {
		BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
	}
	if err := c.call(ctx, &header, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, err
	}
	if header == nil || header.BaseFeePerGas == nil {
		return nil, errors.New("base fee is nil")
	}
	return header.BaseFeePerGas.ToInt(), nil
}

func (c *Client) sendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	return c.withEth(ctx, "eth_sendRawTransaction", func(ctx context.Context, client *ethclient.Client) error {
		return client.SendTransaction(ctx, tx)
	})
}
