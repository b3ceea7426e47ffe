package blockchain_test

import (
	"encoding/json"

	"github.com/shu8h0-null/goblin/core/blockchain"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sampleBlock() *blockchain.Block {
	return &blockchain.Block{
		Index:     1,
		Timestamp: 1716123456.5,
		Transactions: []blockchain.Transaction{
			{Sender: "A", Recipient: "B", Amount: 10},
		},
		Proof:        100,
		PreviousHash: "abc",
	}
}

func unicodeBlock() *blockchain.Block {
	return &blockchain.Block{
		Index:     3,
		Timestamp: 1716123456.25,
		Transactions: []blockchain.Transaction{
			{Sender: "Zoë", Recipient: "😀\x7f\n\x01/<&>\\", Amount: 0},
		},
		Proof:        7,
		PreviousHash: "ÿ",
	}
}

var _ = Describe("Block", func() {

	Context("when encoding canonically", func() {

		It("should write keys in lexicographic order", func() {
			Expect(string(sampleBlock().CanonicalJSON())).To(Equal(
				`{"index": 1, "previous_hash": "abc", "proof": 100, "timestamp": 1716123456.5, "transactions": [{"amount": 10, "recipient": "B", "sender": "A"}]}`,
			))
		})

		It("should keep a fractional part on integral timestamps", func() {
			b := &blockchain.Block{Index: 2, Timestamp: 1716123456, Proof: 35293, PreviousHash: `x"y`}
			Expect(string(b.CanonicalJSON())).To(Equal(
				`{"index": 2, "previous_hash": "x\"y", "proof": 35293, "timestamp": 1716123456.0, "transactions": []}`,
			))
		})

		It("should not escape HTML characters", func() {
			b := &blockchain.Block{Index: 1, PreviousHash: "<&>"}
			Expect(string(b.CanonicalJSON())).To(ContainSubstring(`"previous_hash": "<&>"`))
		})

		It("should escape everything outside printable ASCII", func() {
			b := unicodeBlock()
			Expect(string(b.CanonicalJSON())).To(Equal(
				`{"index": 3, "previous_hash": "\u00ff", "proof": 7, "timestamp": 1716123456.25, "transactions": [{"amount": 0, "recipient": "\ud83d\ude00\u007f\n\u0001/<&>\\", "sender": "Zo\u00eb"}]}`,
			))
		})

		It("should give invalid UTF-8 bytes their own escapes", func() {
			ff := &blockchain.Block{Index: 3, Timestamp: 1716123456.25, Proof: 7, PreviousHash: "\xff"}
			fe := &blockchain.Block{Index: 3, Timestamp: 1716123456.25, Proof: 7, PreviousHash: "\xfe"}
			replacement := &blockchain.Block{Index: 3, Timestamp: 1716123456.25, Proof: 7, PreviousHash: "\ufffd"}
			yDiaeresis := &blockchain.Block{Index: 3, Timestamp: 1716123456.25, Proof: 7, PreviousHash: "\u00ff"}

			Expect(string(ff.CanonicalJSON())).To(ContainSubstring(`"previous_hash": "\udcff"`))
			Expect(ff.Hash()).To(Equal("4c223db7d30e05fbe266429b5edef9d1d420224c4ed27e2ab3170093707ee962"))

			hashes := map[string]bool{}
			for _, b := range []*blockchain.Block{ff, fe, replacement, yDiaeresis} {
				hashes[b.Hash()] = true
			}
			Expect(hashes).To(HaveLen(4))
		})

		It("should switch timestamps to exponent form outside [1e-4, 1e16)", func() {
			cases := map[float64]string{
				0:            `"timestamp": 0.0,`,
				123:          `"timestamp": 123.0,`,
				1e16:         `"timestamp": 1e+16,`,
				1.5e-05:      `"timestamp": 1.5e-05,`,
				1716123456.5: `"timestamp": 1716123456.5,`,
			}
			for ts, want := range cases {
				b := &blockchain.Block{Timestamp: ts}
				Expect(string(b.CanonicalJSON())).To(ContainSubstring(want))
			}
		})

		It("should produce valid JSON that decodes back to the same block", func() {
			var decoded blockchain.Block
			Expect(json.Unmarshal(sampleBlock().CanonicalJSON(), &decoded)).To(Succeed())
			Expect(&decoded).To(Equal(sampleBlock()))
		})

		It("should keep quoted field boundaries unambiguous", func() {
			a := &blockchain.Block{Index: 1, Transactions: []blockchain.Transaction{{Sender: "AB", Recipient: "C"}}}
			b := &blockchain.Block{Index: 1, Transactions: []blockchain.Transaction{{Sender: "A", Recipient: "BC"}}}
			Expect(a.Hash()).NotTo(Equal(b.Hash()))
		})
	})

	Context("when hashing", func() {

		It("should match the SHA-256 digest of the canonical encoding", func() {
			Expect(blockchain.HashBlock(sampleBlock())).To(Equal("59757c02091002883a7bfbe8bba7de2eaf6cf9f96a84b08971ab1a05d190319e"))

			b := &blockchain.Block{Index: 2, Timestamp: 1716123456, Proof: 35293, PreviousHash: `x"y`}
			Expect(b.Hash()).To(Equal("a304e6863c1d7e10297619d3aedbf295b48c0a8b38bad3da5753170797b76514"))

			Expect(unicodeBlock().Hash()).To(Equal("6bf464190e43e39a8b8d026e28983467ad844cb93f923caf3248b65e66ebb2fb"))
		})

		It("should be deterministic", func() {
			b := sampleBlock()
			Expect(b.Hash()).To(Equal(b.Hash()))
			Expect(b.Hash()).To(Equal(sampleBlock().Hash()))
			Expect(b.Hash()).To(HaveLen(64))
			Expect(b.Hash()).To(MatchRegexp("^[0-9a-f]{64}$"))
		})

		It("should change when any field changes", func() {
			base := sampleBlock().Hash()
			mutations := []func(*blockchain.Block){
				func(b *blockchain.Block) { b.Index = 2 },
				func(b *blockchain.Block) { b.Timestamp += 0.001 },
				func(b *blockchain.Block) { b.Proof = 101 },
				func(b *blockchain.Block) { b.PreviousHash = "abd" },
				func(b *blockchain.Block) { b.Transactions[0].Amount = 11 },
				func(b *blockchain.Block) { b.Transactions[0].Sender = "C" },
				func(b *blockchain.Block) { b.Transactions[0].Recipient = "C" },
				func(b *blockchain.Block) { b.Transactions = nil },
			}
			for _, mutate := range mutations {
				b := sampleBlock()
				mutate(b)
				Expect(b.Hash()).NotTo(Equal(base))
			}
		})

		It("should treat nil and empty transaction lists alike", func() {
			a := &blockchain.Block{Index: 1}
			b := &blockchain.Block{Index: 1, Transactions: []blockchain.Transaction{}}
			Expect(a.Hash()).To(Equal(b.Hash()))
		})
	})

	Context("when copying", func() {

		It("should not share transactions with the original", func() {
			b := sampleBlock()
			c := b.Copy()
			c.Transactions[0].Amount = 99
			Expect(b.Transactions[0].Amount).To(BeEquivalentTo(10))
		})
	})
})
