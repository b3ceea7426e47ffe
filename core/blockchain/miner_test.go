package blockchain_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shu8h0-null/goblin/core/blockchain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func digest(previous, candidate int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%d", previous, candidate)))
	return hex.EncodeToString(sum[:])
}

var _ = Describe("Miner", func() {

	var miner *blockchain.Miner

	BeforeEach(func() {
		var err error
		miner, err = blockchain.NewMiner("node", 1)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("when mining", func() {

		DescribeTable("should find the first valid proof",
			func(previous, expected int64) {
				proof, err := miner.Mine(context.Background(), previous)
				Expect(err).NotTo(HaveOccurred())
				Expect(proof).To(Equal(expected))
				Expect(blockchain.IsValidProof(previous, proof)).To(BeTrue())
				Expect(digest(previous, proof)).To(HavePrefix(blockchain.Difficulty))
			},
			Entry("after the genesis proof", int64(100), int64(35293)),
			Entry("after zero", int64(0), int64(69732)),
			Entry("after one", int64(1), int64(72608)),
			Entry("after a mined proof", int64(35293), int64(35089)),
			Entry("after a negative proof", int64(-7), int64(43743)),
		)

		It("should not skip any smaller valid candidate", func() {
			proof, err := miner.Mine(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			for c := int64(0); c < proof; c++ {
				Expect(blockchain.IsValidProof(100, c)).To(BeFalse())
			}
		})

		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := miner.Mine(ctx, 100)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("when validating", func() {

		It("should agree with the hex digest prefix", func() {
			for c := int64(0); c < 2000; c++ {
				Expect(blockchain.IsValidProof(100, c)).To(Equal(strings.HasPrefix(digest(100, c), "0000")))
			}
		})

		It("should reject near misses", func() {
			Expect(blockchain.IsValidProof(100, 35292)).To(BeFalse())
			Expect(blockchain.IsValidProof(100, 35294)).To(BeFalse())
			Expect(blockchain.IsValidProof(101, 35293)).To(BeFalse())
		})
	})

	Context("when building the reward", func() {

		It("should credit the miner from the reward sender", func() {
			Expect(miner.RewardTx()).To(Equal(blockchain.Transaction{
				Sender:    blockchain.RewardSender,
				Recipient: "node",
				Amount:    1,
			}))
			Expect(miner.Address()).To(Equal("node"))
		})

		It("should refuse bad configuration", func() {
			_, err := blockchain.NewMiner("", 1)
			Expect(err).To(HaveOccurred())
			_, err = blockchain.NewMiner("node", -1)
			Expect(err).To(HaveOccurred())
		})
	})
})
