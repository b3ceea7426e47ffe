package blockchain

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Wallet is the node's identity. Its address receives mining rewards; it never signs
// transactions.
type Wallet struct {
	Id         string
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
	Address    string
}

type serializableKey struct {
	D, X, Y *big.Int
}

type serializableWallet struct {
	Id      string
	Key     serializableKey
	Address string
}

// NewWallet generates a wallet with a random id. It is not stored anywhere.
func NewWallet() (*Wallet, error) {
	return newWallet(uuid.NewString())
}

func newWallet(id string) (*Wallet, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("error generating private key for wallet: %w", err)
	}
	return ConstructWallet(id, privateKey)
}

// ConstructWallet derives the wallet address from privKey.
func ConstructWallet(id string, privKey *ecdsa.PrivateKey) (*Wallet, error) {
	publicKey := &privKey.PublicKey
	pubKeyHash, err := PublicKeyToPubKeyHash(publicKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		Id:         id,
		PrivateKey: privKey,
		PublicKey:  publicKey,
		Address:    PubKeyHashToAddress(pubKeyHash),
	}, nil
}

// LoadOrCreateWallet loads the wallet stored under id, creating and saving it first if it does
// not exist yet.
func LoadOrCreateWallet(store *Store, id string) (*Wallet, error) {
	wallet, err := store.GetWallet(id)
	if err == nil {
		if err := wallet.Verify(); err != nil {
			return nil, fmt.Errorf("stored wallet %s is corrupt: %w", id, err)
		}
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, fmt.Errorf("error loading wallet %s: %w", id, err)
	}

	wallet, err = newWallet(id)
	if err != nil {
		return nil, err
	}
	if err := store.PutWallet(wallet); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return wallet, nil
}

// Verify checks that Address carries a valid checksum and belongs to the wallet's key.
func (wallet *Wallet) Verify() error {
	pubKeyHash, err := AddressToPubKeyHash(wallet.Address)
	if err != nil {
		return err
	}
	keyHash, err := PublicKeyToPubKeyHash(wallet.PublicKey)
	if err != nil {
		return err
	}
	if !bytes.Equal(pubKeyHash, keyHash) {
		return errors.New("address does not match public key")
	}
	return nil
}

func (sw serializableWallet) wallet() *Wallet {
	priv := &ecdsa.PrivateKey{
		D: sw.Key.D,
		PublicKey: ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     sw.Key.X,
			Y:     sw.Key.Y,
		},
	}

	return &Wallet{
		Id:         sw.Id,
		PrivateKey: priv,
		PublicKey:  &priv.PublicKey,
		Address:    sw.Address,
	}
}
