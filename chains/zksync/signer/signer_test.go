package signer

import (
	"math/big"
	"testing"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development key (hardhat account #0).
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewSignerFromHex(t *testing.T) {
	s, err := NewSignerFromHex(testKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), s.Address())

	_, err = NewSignerFromHex("")
	assert.True(t, errors.Is(err, zkerrors.ErrMissingCredential))

	_, err = NewSignerFromHex("0xnothex")
	assert.Error(t, err)
}

func TestSignMessageRecovers(t *testing.T) {
	s, err := NewSignerFromHex(testKey)
	require.NoError(t, err)

	sig, err := s.SignMessage([]byte("hello zksync"))
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := RecoverMessageSigner([]byte("hello zksync"), sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), recovered)
}

func TestSignTx(t *testing.T) {
	s, err := NewSignerFromHex(testKey)
	require.NoError(t, err)

	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	chainID := big.NewInt(300)
	tx := ethtypes.NewTx(&ethtypes.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     1,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(100),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(5),
	})

	signed, err := s.SignTx(tx, chainID)
	require.NoError(t, err)

	sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), sender)
}
