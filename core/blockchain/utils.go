package blockchain

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"

	sha256 "github.com/minio/sha256-simd"
	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/ripemd160"
)

const checksumLen = 4

// PublicKeyToPubKeyHash hashes the public key with sha256 and then hashes the result again
// with ripemd160.
func PublicKeyToPubKeyHash(pubKey *ecdsa.PublicKey) ([]byte, error) {
	pubkeyECDH, err := pubKey.ECDH()
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	publicKeyBytes := pubkeyECDH.Bytes()

	sha256Hash := sha256.Sum256(publicKeyBytes)
	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	return ripemd160Hasher.Sum(nil), nil
}

// PubKeyHashToAddress appends a double-sha256 checksum and base58-encodes the result.
func PubKeyHashToAddress(pubKeyHash []byte) string {
	firstHash := sha256.Sum256(pubKeyHash)
	secondHash := sha256.Sum256(firstHash[:])

	addressBytes := append(append([]byte{}, pubKeyHash...), secondHash[:checksumLen]...)
	return base58.Encode(addressBytes)
}

// AddressToPubKeyHash decodes a base58 address and verifies its checksum.
func AddressToPubKeyHash(address string) ([]byte, error) {
	addressBytes, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to decode address: %w", err)
	}
	if len(addressBytes) <= checksumLen {
		return nil, errors.New("address too short")
	}

	pubKeyHash := addressBytes[:len(addressBytes)-checksumLen]
	firstHash := sha256.Sum256(pubKeyHash)
	secondHash := sha256.Sum256(firstHash[:])

	if !bytes.Equal(addressBytes[len(addressBytes)-checksumLen:], secondHash[:checksumLen]) {
		return nil, errors.New("address checksum mismatched")
	}
	return pubKeyHash, nil
}
