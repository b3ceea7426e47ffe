package blockchain

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

type bucketName string

const walletBucket bucketName = "wallets"

var ErrWalletNotFound = errors.New("wallet not found")

// Store is the on-disk keystore for node wallets. The ledger itself is never written here.
type Store struct {
	db           *bolt.DB
	walletBucket bucketName
}

// NewDb opens a BoltDB instance under dbDir, returns error if operation fails
func NewDb(dbDir string) (*Store, error) {
	err := os.MkdirAll(dbDir, 0700)
	if err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, "wallets.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("Error opening db: %w", err)
	}

	store := &Store{
		db:           db,
		walletBucket: walletBucket,
	}
	if err := store.createWalletBucket(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Creates a bucket for wallets if not already exists with name "wallets"
func (store *Store) createWalletBucket() error {
	return store.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(store.walletBucket))
		if err != nil {
			return fmt.Errorf("Error creating bucket for wallets %v", err)
		}
		return nil
	})
}

func (store *Store) PutWallet(wallet *Wallet) error {
	if wallet == nil {
		return errors.New("wallet not initialized")
	}
	data, err := serializeWallet(wallet)
	if err != nil {
		return err
	}

	return store.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store.walletBucket))
		if bucket == nil {
			return errors.New("wallet bucket not found")
		}
		return bucket.Put([]byte(wallet.Id), data)
	})
}

// GetWallet returns ErrWalletNotFound when no wallet is stored under id.
func (store *Store) GetWallet(id string) (*Wallet, error) {
	var wallet *Wallet

	err := store.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store.walletBucket))
		if bucket == nil {
			return errors.New("wallet bucket not found")
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrWalletNotFound
		}

		var err error
		wallet, err = deserializeWallet(data)
		return err
	})
	return wallet, err
}

// WalletIDs lists stored wallet ids in key order.
func (store *Store) WalletIDs() ([]string, error) {
	var ids []string
	err := store.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store.walletBucket))
		if bucket == nil {
			return errors.New("wallet bucket not found")
		}
		return bucket.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

func (store *Store) Close() error {
	if err := store.db.Close(); err != nil {
		return err
	}
	return nil
}

func serializeWallet(w *Wallet) ([]byte, error) {
	sw := serializableWallet{
		Id: w.Id,
		Key: serializableKey{
			D: w.PrivateKey.D,
			X: w.PrivateKey.PublicKey.X,
			Y: w.PrivateKey.PublicKey.Y,
		},
		Address: w.Address,
	}

	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(sw)
	return buf.Bytes(), err
}

func deserializeWallet(data []byte) (*Wallet, error) {
	var sw serializableWallet
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sw); err != nil {
		return nil, fmt.Errorf("failed to decode wallet: %w", err)
	}
	return sw.wallet(), nil
}
