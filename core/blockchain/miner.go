package blockchain

import (
	"context"
	"errors"
	"strconv"

	sha256 "github.com/minio/sha256-simd"
)

// Difficulty is the required hex prefix of a valid proof digest. It never changes.
const Difficulty = "0000"

// RewardSender marks a mining reward. No balance backs it.
const RewardSender = "0"

// ctxCheckInterval is how many candidates are tried between cancellation checks.
const ctxCheckInterval = 1 << 12

type Miner struct {
	address string
	reward  int64
}

func NewMiner(address string, reward int64) (*Miner, error) {
	if address == "" {
		return nil, errors.New("Miner address cannot be empty")
	}
	if reward < 0 {
		return nil, errors.New("Mining reward cannot be negative")
	}
	return &Miner{
		address: address,
		reward:  reward,
	}, nil
}

func (m *Miner) Address() string {
	return m.address
}

// RewardTx credits the miner with the block reward.
func (m *Miner) RewardTx() Transaction {
	return Transaction{
		Sender:    RewardSender,
		Recipient: m.address,
		Amount:    m.reward,
	}
}

// Mine searches candidates 0, 1, 2, ... and returns the first one that IsValidProof accepts
// for previousProof. It only fails if ctx is cancelled first.
func (m *Miner) Mine(ctx context.Context, previousProof int64) (int64, error) {
	return searchProof(ctx, previousProof)
}

func searchProof(ctx context.Context, previousProof int64) (int64, error) {
	prefix := strconv.AppendInt(make([]byte, 0, 40), previousProof, 10)
	buf := make([]byte, 0, 40)

	for candidate := int64(0); ; candidate++ {
		if candidate%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			default:
			}
		}
		buf = strconv.AppendInt(append(buf[:0], prefix...), candidate, 10)
		if meetsDifficulty(sha256.Sum256(buf)) {
			return candidate, nil
		}
	}
}

// IsValidProof hashes the decimal text of previousProof followed by the decimal text of
// candidate and checks the hex digest for the Difficulty prefix.
func IsValidProof(previousProof, candidate int64) bool {
	guess := strconv.FormatInt(previousProof, 10) + strconv.FormatInt(candidate, 10)
	return meetsDifficulty(sha256.Sum256([]byte(guess)))
}

// meetsDifficulty checks for "0000" in hex, i.e. the first two digest bytes are zero.
func meetsDifficulty(sum [32]byte) bool {
	return sum[0] == 0 && sum[1] == 0
}
