package signer

import (
	"context"
	"crypto/ecdsa"

	"github.com/cockroachdb/errors"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultHDPath is the BIP-44 path of the first account.
const DefaultHDPath = "m/44'/60'/0'/0/0"

// MnemonicSigner holds a key derived from a BIP-39 mnemonic.
type MnemonicSigner struct {
	key *ecdsa.PrivateKey
}

var _ Signer = (*MnemonicSigner)(nil)

// NewMnemonicSigner derives the key at hdPath from mnemonic. An empty hdPath
// selects DefaultHDPath.
func NewMnemonicSigner(mnemonic, hdPath string) (*MnemonicSigner, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	if hdPath == "" {
		hdPath = DefaultHDPath
	}
	derived, err := hd.Secp256k1.Derive()(mnemonic, "", hdPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive key at %s", hdPath)
	}
	key, err := crypto.ToECDSA(derived)
	if err != nil {
		return nil, errors.Wrap(err, "invalid derived key")
	}
	return &MnemonicSigner{key: key}, nil
}

// GenerateMnemonic returns a new 24-word mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func (s *MnemonicSigner) Sign(_ context.Context, digest []byte) ([]byte, error) {
	return crypto.Sign(digest, s.key)
}

func (s *MnemonicSigner) GetPublicKey(_ context.Context) ([]byte, error) {
	return crypto.CompressPubkey(&s.key.PublicKey), nil
}

func (s *MnemonicSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// PrivateKey returns the derived key.
func (s *MnemonicSigner) PrivateKey() *ecdsa.PrivateKey {
	return s.key
}

type MnemonicSignerConfig struct {
	Mnemonic string `json:"mnemonic" yaml:"mnemonic"`
	HDPath   string `json:"hd_path,omitempty" yaml:"hd_path,omitempty"`
}

var _ SignerConfig = (*MnemonicSignerConfig)(nil)

func (c *MnemonicSignerConfig) Build() (Signer, error) {
	return NewMnemonicSigner(c.Mnemonic, c.HDPath)
}

func (c *MnemonicSignerConfig) Validate() error {
	if !bip39.IsMnemonicValid(c.Mnemonic) {
		return errors.New("invalid mnemonic")
	}
	return nil
}
