package zksync

import (
	"context"
	"math/big"

	"github.com/Velocity-BPA/zksync-lib/chains/zksync/signer"
	"github.com/Velocity-BPA/zksync-lib/chains/zksync/utils"
	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/Velocity-BPA/zksync-lib/common/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SendNative transfers ETH from the configured key to recipient.
//
// Parameters:
// - ctx: the context for managing the request.
// - recipient: the recipient address.
// - amount: the amount in wei.
//
// Returns:
// - *types.Transaction: the submitted transaction.
// - error: ErrMissingCredential without a private key, ErrInvalidAddress or ErrInvalidQuantity on bad input, or the RPC error.
func (c *Client) SendNative(ctx context.Context, recipient string, amount *big.Int) (*types.Transaction, error) {
	return c.send(ctx, utils.ZeroAddress, recipient, amount)
}

// SendToken transfers an ERC-20 token from the configured key to recipient.
// A native token address (zero or L2 base token) falls back to SendNative.
//
// Parameters:
// - ctx: the context for managing the request.
// - token: the token contract address.
// - recipient: the recipient address.
// - amount: the amount in token base units.
//
// Returns:
// - *types.Transaction: the submitted transaction.
// - error: ErrMissingCredential without a private key, ErrInvalidAddress or ErrInvalidQuantity on bad input, or the RPC error.
func (c *Client) SendToken(ctx context.Context, token, recipient string, amount *big.Int) (*types.Transaction, error) {
	return c.send(ctx, token, recipient, amount)
}

func (c *Client) send(ctx context.Context, token, recipient string, amount *big.Int) (*types.Transaction, error) {
	s, err := c.getSigner()
	if err != nil {
		return nil, err
	}

	to, err := utils.ParseAddress(recipient)
	if err != nil {
		return nil, err
	}

	if amount == nil || amount.Sign() < 0 {
		return nil, errors.Wrap(zkerrors.ErrInvalidQuantity, "amount must be a non-negative integer")
	}

	native := utils.IsNativeToken(token)
	txTo := to
	value := amount
	var data []byte

	if !native {
		tokenAddress, err := utils.ParseAddress(token)
		if err != nil {
			return nil, err
		}

		data, err = erc20ABI.Pack("transfer", to, amount)
		if err != nil {
			return nil, errors.Wrap(err, "failed to pack transfer data")
		}
		txTo = tokenAddress
		value = big.NewInt(0)
	}

	from := s.Address()
	nonce, err := c.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}

	tx, err := c.prepareTransaction(ctx, from, nonce, txTo, value, data)
	if err != nil {
		return nil, err
	}

	signedTx, err := c.signAndSendTransaction(ctx, s, tx)
	if err != nil {
		return nil, err
	}

	tokenHex := utils.ZeroAddress
	if !native {
		tokenHex = txTo.Hex()
	}

	result := &types.Transaction{
		Hash:        signedTx.Hash().Hex(),
		From:        from.Hex(),
		To:          txTo.Hex(),
		Recipient:   to.Hex(),
		Amount:      amount.String(),
		Token:       tokenHex,
		Nonce:       nonce,
		ChainID:     signedTx.ChainId().Uint64(),
		ExplorerUrl: c.explorerTxUrl(signedTx.Hash().Hex()),
	}

	c.logger.WithFields(logrus.Fields{
		"network": c.config.Name,
		"txHash":  result.Hash,
		"to":      result.Recipient,
		"token":   result.Token,
		"amount":  result.Amount,
	}).Info("Transaction sent")

	return result, nil
}

// prepareTransaction prepares an EIP-1559 transaction with the given parameters.
//
// Parameters:
// - ctx: the context for managing the request.
// - from: the sender address used for gas estimation.
// - nonce: the nonce for the transaction.
// - to: the recipient address of the transaction.
// - value: the amount of ETH to send with the transaction.
// - data: the input data for the transaction.
//
// Returns:
// - *ethtypes.Transaction: the prepared transaction.
// - error: an error if the gas estimation, fee retrieval or chain ID lookup fails.
func (c *Client) prepareTransaction(ctx context.Context, from common.Address, nonce uint64, to common.Address, value *big.Int, data []byte) (*ethtypes.Transaction, error) {
	gasLimit, err := c.estimateTransferGas(ctx, from, to, value, data)
	if err != nil {
		return nil, err
	}

	gasPriceData, err := c.getEIP1559GasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get EIP-1559 gas price")
	}

	chainID, err := c.resolveChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain id")
	}

	return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasFeeCap: gasPriceData.MaxFeePerGas,
		GasTipCap: gasPriceData.MaxPriorityFeePerGas,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	}), nil
}

// signAndSendTransaction signs and sends the prepared transaction.
func (c *Client) signAndSendTransaction(ctx context.Context, s signer.Signer, tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	signedTx, err := s.SignTx(tx, tx.ChainId())
	if err != nil {
		c.logger.WithError(err).Error("Failed to sign transaction")
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	if err = c.sendTransaction(ctx, signedTx); err != nil {
		c.logger.WithError(err).Error("Failed to send transaction")
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	return signedTx, nil
}
