package blockchain_test

import (
	"sync"

	"github.com/shu8h0-null/goblin/core/blockchain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Mempool", func() {

	var pool *blockchain.Mempool

	BeforeEach(func() {
		pool = blockchain.NewMempool()
	})

	It("should drain an empty pool to an empty, non-nil slice", func() {
		txs := pool.Drain()
		Expect(txs).NotTo(BeNil())
		Expect(txs).To(BeEmpty())
	})

	It("should drain in insertion order and leave the pool empty", func() {
		pool.Add(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})
		pool.Add(blockchain.Transaction{Sender: "C", Recipient: "D", Amount: 2})
		pool.Add(blockchain.Transaction{Sender: "A", Recipient: "D", Amount: 3})
		Expect(pool.Len()).To(Equal(3))

		txs := pool.Drain()
		Expect(txs).To(Equal([]blockchain.Transaction{
			{Sender: "A", Recipient: "B", Amount: 1},
			{Sender: "C", Recipient: "D", Amount: 2},
			{Sender: "A", Recipient: "D", Amount: 3},
		}))
		Expect(pool.Len()).To(Equal(0))
		Expect(pool.Drain()).To(BeEmpty())
	})

	It("should accept anything without validating", func() {
		pool.Add(blockchain.Transaction{})
		pool.Add(blockchain.Transaction{Sender: "A", Amount: 1 << 40})
		Expect(pool.Len()).To(Equal(2))
	})

	It("should sum staged outflow per sender", func() {
		pool.Add(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 4})
		pool.Add(blockchain.Transaction{Sender: "B", Recipient: "A", Amount: 7})
		pool.Add(blockchain.Transaction{Sender: "A", Recipient: "C", Amount: 5})
		Expect(pool.PendingOutflow("A")).To(BeEquivalentTo(9))
		Expect(pool.PendingOutflow("B")).To(BeEquivalentTo(7))
		Expect(pool.PendingOutflow("Z")).To(BeEquivalentTo(0))
	})

	It("should hand out copies from Pending", func() {
		pool.Add(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 4})
		pending := pool.Pending()
		pending[0].Amount = 100
		Expect(pool.Pending()[0].Amount).To(BeEquivalentTo(4))
	})

	It("should not lose transactions under concurrent adds and drains", func() {
		var wg sync.WaitGroup
		var mu sync.Mutex
		var drained []blockchain.Transaction

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for j := 0; j < 100; j++ {
					pool.Add(blockchain.Transaction{Sender: "A", Recipient: "B", Amount: 1})
					if j%10 == 0 {
						txs := pool.Drain()
						mu.Lock()
						drained = append(drained, txs...)
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()
		drained = append(drained, pool.Drain()...)
		Expect(drained).To(HaveLen(800))
	})
})
