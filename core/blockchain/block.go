package blockchain

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	sha256 "github.com/minio/sha256-simd"
	"github.com/shu8h0-null/goblin/core/logger"
)

var log = logger.NewLogger()

type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

type Block struct {
	Index        int64         `json:"index"`
	Timestamp    float64       `json:"timestamp"`
	Transactions []Transaction `json:"transactions"`
	Proof        int64         `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

// Copy returns a deep copy so callers cannot mutate committed history.
func (b *Block) Copy() *Block {
	c := *b
	c.Transactions = make([]Transaction, len(b.Transactions))
	copy(c.Transactions, b.Transactions)
	return &c
}

// Hash returns the lowercase hex SHA-256 digest of the block's canonical encoding.
func (b *Block) Hash() string {
	sum := sha256.Sum256(b.CanonicalJSON())
	return hex.EncodeToString(sum[:])
}

// HashBlock is the Hasher: identical logical blocks always yield identical digests.
func HashBlock(b *Block) string {
	return b.Hash()
}

// CanonicalJSON encodes the block as JSON with keys in lexicographic order, ", " and ": "
// separators, and only ASCII in the output.
func (b *Block) CanonicalJSON() []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"index": `)
	buf.WriteString(strconv.FormatInt(b.Index, 10))
	buf.WriteString(`, "previous_hash": `)
	writeString(&buf, b.PreviousHash)
	buf.WriteString(`, "proof": `)
	buf.WriteString(strconv.FormatInt(b.Proof, 10))
	buf.WriteString(`, "timestamp": `)
	buf.WriteString(formatTimestamp(b.Timestamp))
	buf.WriteString(`, "transactions": [`)
	for i, tx := range b.Transactions {
		if i > 0 {
			buf.WriteString(", ")
		}
		tx.writeCanonical(&buf)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func (tx Transaction) writeCanonical(buf *bytes.Buffer) {
	buf.WriteString(`{"amount": `)
	buf.WriteString(strconv.FormatInt(tx.Amount, 10))
	buf.WriteString(`, "recipient": `)
	writeString(buf, tx.Recipient)
	buf.WriteString(`, "sender": `)
	writeString(buf, tx.Sender)
	buf.WriteByte('}')
}

const hexDigits = "0123456789abcdef"

// writeString quotes s with every byte outside printable ASCII written as a \u escape. Runes
// above the BMP become a surrogate pair. A byte that is not part of valid UTF-8 becomes the lone
// low surrogate \udcXX, which no valid string produces on its own.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf.WriteByte('\\')
				buf.WriteByte(c)
			case c == '\n':
				buf.WriteString(`\n`)
			case c == '\r':
				buf.WriteString(`\r`)
			case c == '\t':
				buf.WriteString(`\t`)
			case c == '\b':
				buf.WriteString(`\b`)
			case c == '\f':
				buf.WriteString(`\f`)
			case c < 0x20 || c == 0x7f:
				writeUnicodeEscape(buf, rune(c))
			default:
				buf.WriteByte(c)
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			writeUnicodeEscape(buf, 0xdc00|rune(c))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			writeUnicodeEscape(buf, hi)
			writeUnicodeEscape(buf, lo)
		default:
			writeUnicodeEscape(buf, r)
		}
		i += size
	}
	buf.WriteByte('"')
}

func writeUnicodeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hexDigits[r>>12&0xf])
	buf.WriteByte(hexDigits[r>>8&0xf])
	buf.WriteByte(hexDigits[r>>4&0xf])
	buf.WriteByte(hexDigits[r&0xf])
}

// formatTimestamp renders the shortest decimal that round-trips, with ".0" on integral values
// and exponent form outside [1e-4, 1e16).
func formatTimestamp(ts float64) string {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return "null"
	}
	if abs := math.Abs(ts); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(ts, 'e', -1, 64)
	}
	s := strconv.FormatFloat(ts, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
