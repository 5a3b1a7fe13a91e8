package signer

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	zkerrors "github.com/Velocity-BPA/zksync-lib/common/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Signer is an interface that defines methods for signing messages and transactions, and retrieving the signer's address.
type Signer interface {
	// SignMessage signs the given message with the EIP-191 personal message prefix.
	//
	// Parameters:
	// - message: the raw message bytes.
	//
	// Returns:
	// - []byte: the 65 byte signature with V in {27, 28}.
	// - error: an error if the signing process fails.
	SignMessage(message []byte) ([]byte, error)

	// SignTx signs the given transaction with the specified chain ID and returns the signed transaction.
	//
	// Parameters:
	// - transaction: the transaction to be signed.
	// - chainID: the chain ID for the transaction.
	//
	// Returns:
	// - *ethtypes.Transaction: the signed transaction.
	// - error: an error if the signing process fails.
	SignTx(transaction *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)

	// Address returns the signer's address.
	Address() common.Address
}

type signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewSigner creates a new signer instance with the given private key.
func NewSigner(privateKey *ecdsa.PrivateKey) (Signer, error) {
	if privateKey == nil {
		return nil, zkerrors.ErrMissingCredential
	}

	pubKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("cannot assign public key to ECDSA")
	}

	return &signer{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*pubKeyECDSA),
	}, nil
}

// NewSignerFromHex parses a hex private key, with or without 0x prefix, and creates a signer.
//
// Parameters:
// - hexKey: the hex encoded private key.
//
// Returns:
// - Signer: a new signer instance.
// - error: ErrMissingCredential if the key is empty, or an error if it cannot be parsed.
func NewSignerFromHex(hexKey string) (Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, zkerrors.ErrMissingCredential
	}

	privKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}

	return NewSigner(privKey)
}

func (s *signer) SignMessage(message []byte) ([]byte, error) {
	signature, err := crypto.Sign(accounts.TextHash(message), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	signature[crypto.RecoveryIDOffset] += 27 // Transform V from 0/1 to 27/28 according to the yellow paper

	return signature, nil
}

func (s *signer) Address() common.Address {
	return s.address
}

func (s *signer) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	signedTx, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}

// RecoverMessageSigner returns the address that produced signature over message with SignMessage.
func RecoverMessageSigner(message, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errors.Wrapf(zkerrors.ErrInvalidParameter, "signature must be %d bytes", crypto.SignatureLength)
	}

	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover public key")
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}
