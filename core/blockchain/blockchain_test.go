package blockchain_test

import (
	"sync"
	"time"

	"github.com/shu8h0-null/goblin/core/blockchain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Blockchain", func() {

	var bc *blockchain.Blockchain

	BeforeEach(func() {
		bc = blockchain.NewBlockchain(testGenesis)
	})

	Context("when freshly created", func() {

		It("should hold only the genesis block", func() {
			Expect(bc.Len()).To(Equal(1))

			genesis, err := bc.LastBlock()
			Expect(err).NotTo(HaveOccurred())
			Expect(genesis.Index).To(BeEquivalentTo(1))
			Expect(genesis.PreviousHash).To(Equal(testGenesis.PreviousHash))
			Expect(genesis.Proof).To(BeEquivalentTo(100))
			Expect(genesis.Transactions).NotTo(BeNil())
			Expect(genesis.Transactions).To(BeEmpty())
			Expect(genesis.Timestamp).To(BeNumerically("~", float64(time.Now().Unix()), 5))
		})

		It("should have an empty pool", func() {
			Expect(bc.Pool().Len()).To(Equal(0))
		})
	})

	Context("when the chain was never initialised", func() {

		It("should report an empty chain", func() {
			var empty blockchain.Blockchain
			_, err := empty.LastBlock()
			Expect(err).To(MatchError(blockchain.ErrEmptyChain))

			_, err = empty.AppendBlock(35293, "")
			Expect(err).To(MatchError(blockchain.ErrEmptyChain))
		})
	})

	Context("when staging transactions", func() {

		It("should report the index of the next block", func() {
			Expect(bc.NewTransaction(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})).To(BeEquivalentTo(2))
			Expect(bc.NewTransaction(blockchain.Transaction{Sender: "A", Recipient: "C", Amount: 1})).To(BeEquivalentTo(2))
			commit(bc)
			Expect(bc.NewTransaction(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})).To(BeEquivalentTo(3))
		})
	})

	Context("when appending blocks", func() {

		It("should link every block to the hash of its predecessor", func() {
			for i := 0; i < 4; i++ {
				commit(bc, blockchain.Transaction{Sender: "A", Recipient: "B", Amount: int64(i)})
			}

			chain := bc.Chain()
			Expect(chain).To(HaveLen(5))
			for i, b := range chain {
				Expect(b.Index).To(BeEquivalentTo(i + 1))
				if i > 0 {
					Expect(b.PreviousHash).To(Equal(blockchain.HashBlock(chain[i-1])))
					Expect(blockchain.IsValidProof(chain[i-1].Proof, b.Proof)).To(BeTrue())
					Expect(b.Timestamp).To(BeNumerically(">=", chain[i-1].Timestamp))
				}
			}
		})

		It("should drain the pool into the new block only", func() {
			first := []blockchain.Transaction{
				{Sender: "A", Recipient: "B", Amount: 1},
				{Sender: "B", Recipient: "C", Amount: 2},
			}
			second := []blockchain.Transaction{
				{Sender: "C", Recipient: "A", Amount: 3},
			}

			b2 := commit(bc, first...)
			Expect(bc.Pool().Len()).To(Equal(0))
			b3 := commit(bc, second...)
			Expect(bc.Pool().Len()).To(Equal(0))

			Expect(b2.Transactions).To(Equal(first))
			Expect(b3.Transactions).To(Equal(second))
		})

		It("should use an explicit previous hash when given", func() {
			block, err := bc.AppendBlock(35293, "caller-supplied")
			Expect(err).NotTo(HaveOccurred())
			Expect(block.PreviousHash).To(Equal("caller-supplied"))
		})

		It("should reject a proof that does not follow the last block", func() {
			bc.NewTransaction(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})

			_, err := bc.AppendBlock(12345, "")
			Expect(err).To(MatchError(blockchain.ErrInvalidProof))
			Expect(bc.Len()).To(Equal(1))
			Expect(bc.Pool().Len()).To(Equal(1))
		})

		It("should not let callers mutate committed blocks", func() {
			block := commit(bc, blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})
			block.Transactions[0].Amount = 1000
			block.Proof = 0

			stored := bc.Chain()[1]
			Expect(stored.Transactions[0].Amount).To(BeEquivalentTo(1))
			Expect(stored.Proof).To(BeEquivalentTo(35293))
		})
	})

	Context("when committing a mined block", func() {

		It("should add the reward after the staged transactions", func() {
			bc.NewTransaction(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})
			reward := blockchain.Transaction{Sender: blockchain.RewardSender, Recipient: "node", Amount: 1}

			block, err := bc.CommitBlock(35293, reward)
			Expect(err).NotTo(HaveOccurred())
			Expect(block.Index).To(BeEquivalentTo(2))
			Expect(block.Transactions).To(Equal([]blockchain.Transaction{
				{Sender: "A", Recipient: "B", Amount: 1},
				reward,
			}))
			Expect(bc.Pool().Len()).To(Equal(0))
		})

		It("should not stage the reward when the proof is stale", func() {
			_, err := bc.CommitBlock(1, blockchain.Transaction{Sender: blockchain.RewardSender, Recipient: "node", Amount: 1})
			Expect(err).To(MatchError(blockchain.ErrInvalidProof))
			Expect(bc.Pool().Len()).To(Equal(0))
		})

		It("should neither lose nor duplicate transactions submitted concurrently", func() {
			const submitters, perSubmitter = 4, 50
			proof := nextProof(bc)

			var wg sync.WaitGroup
			for i := 0; i < submitters; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					for j := 0; j < perSubmitter; j++ {
						bc.NewTransaction(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})
					}
				}()
			}
			_, err := bc.CommitBlock(proof, blockchain.Transaction{Sender: blockchain.RewardSender, Recipient: "node", Amount: 1})
			Expect(err).NotTo(HaveOccurred())
			wg.Wait()

			committed := len(bc.Chain()[1].Transactions) - 1
			Expect(committed + bc.Pool().Len()).To(Equal(submitters * perSubmitter))
		})
	})
})
