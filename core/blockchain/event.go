package blockchain

import (
	"fmt"
	"sync"
)

// BlockMinedEvent is published after a mined block is committed.
type BlockMinedEvent struct {
	Index        int64
	Hash         string
	Transactions int
}

// TransactionStagedEvent is published when a transfer is accepted into the pool.
type TransactionStagedEvent struct {
	Transaction Transaction
	BlockIndex  int64
	Pending     int
}

type subscriber[T any] struct {
	ch     chan<- T
	missed uint64
}

// EventFeed fans ledger events out to named subscribers. A subscriber whose channel is full
// misses the event; the feed counts what each one missed instead of blocking the ledger.
type EventFeed[T any] struct {
	topic string
	subs  map[string]*subscriber[T]
	mu    sync.Mutex
}

// EventBus groups the feeds a ChainState publishes to.
type EventBus struct {
	BlockFeed *EventFeed[BlockMinedEvent]
	TxFeed    *EventFeed[TransactionStagedEvent]
}

func NewEventFeed[T any](topic string) *EventFeed[T] {
	return &EventFeed[T]{
		topic: topic,
		subs:  make(map[string]*subscriber[T]),
	}
}

func (ef *EventFeed[T]) Subscribe(id string, ch chan<- T) error {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	if _, exists := ef.subs[id]; exists {
		return fmt.Errorf("%s subscriber %s already present", ef.topic, id)
	}
	ef.subs[id] = &subscriber[T]{ch: ch}
	return nil
}

func (ef *EventFeed[T]) UnSubscribe(id string) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	if sub, ok := ef.subs[id]; ok && sub.missed > 0 {
		log.Debugf("%s subscriber %s left having missed %d events", ef.topic, id, sub.missed)
	}
	delete(ef.subs, id)
}

// Send delivers event to every subscriber with room and returns how many received it.
func (ef *EventFeed[T]) Send(event T) int {
	ef.mu.Lock()
	defer ef.mu.Unlock()

	delivered := 0
	for id, sub := range ef.subs {
		select {
		case sub.ch <- event:
			delivered++
		default:
			sub.missed++
			log.Warnf("%s subscriber %s is behind; %d events missed", ef.topic, id, sub.missed)
		}
	}
	return delivered
}

// Missed reports how many events id has missed. Unknown ids report zero.
func (ef *EventFeed[T]) Missed(id string) uint64 {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	if sub, ok := ef.subs[id]; ok {
		return sub.missed
	}
	return 0
}

func NewEventBus() *EventBus {
	return &EventBus{
		BlockFeed: NewEventFeed[BlockMinedEvent]("block"),
		TxFeed:    NewEventFeed[TransactionStagedEvent]("transaction"),
	}
}
