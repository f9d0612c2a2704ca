package engine

import (
	"fmt"
	"math"

	"github.com/google/btree"

	"limit-book/src/arena"
)

// bidItem orders the bid tree descending so the best (highest) bid is the
// tree minimum. askItem orders the ask tree ascending so the best (lowest)
// ask is the tree minimum.
type bidItem struct {
	level *PriceLevel
}

func (b *bidItem) Less(than btree.Item) bool {
	return b.level.Price > than.(*bidItem).level.Price
}

type askItem struct {
	level *PriceLevel
}

func (a *askItem) Less(than btree.Item) bool {
	return a.level.Price < than.(*askItem).level.Price
}

// Book is a single-instrument limit order book with price-time priority.
// Order and level records come from fixed-block arenas; the two btrees map
// price to level per side, and the orders map gives O(1) cancel/amend by id.
//
// The model is single-threaded and synchronous. Callers that share a Book
// across goroutines must serialize access externally.
type Book struct {
	cfg Config

	bids   *btree.BTree
	asks   *btree.BTree
	orders map[uint64]*Order

	orderPool *arena.Pool[Order]
	levelPool *arena.Pool[PriceLevel]

	version uint64

	trades TradeSink
	diags  DiagnosticSink
}

func NewBook(cfg Config, trades TradeSink, diags DiagnosticSink) *Book {
	if trades == nil {
		trades = NopTradeSink{}
	}
	if diags == nil {
		diags = NopDiagnosticSink{}
	}
	return &Book{
		cfg:       cfg,
		bids:      btree.New(32),
		asks:      btree.New(32),
		orders:    make(map[uint64]*Order),
		orderPool: arena.New[Order](cfg.BlockSize),
		levelPool: arena.New[PriceLevel](cfg.BlockSize),
		trades:    trades,
		diags:     diags,
	}
}

func (b *Book) reject(reason Reason, id uint64, format string, args ...any) {
	b.diags.OnDiagnostic(Diagnostic{
		Reason:  reason,
		OrderID: id,
		Detail:  fmt.Sprintf(format, args...),
	})
}

func (b *Book) validPrice(price float64) bool {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return false
	}
	return price >= b.cfg.MinPrice && price <= b.cfg.MaxPrice
}

func (b *Book) validQuantity(qty uint64) bool {
	return qty >= 1 && qty <= b.cfg.MaxQuantity
}

// AddOrder validates and rests a new order, then runs the crossing loop.
// Invalid input or a duplicate id is a no-op reported to the diagnostic sink;
// the book is left untouched.
func (b *Book) AddOrder(id uint64, side Side, price float64, qty uint64, ts uint64) {
	if id == 0 {
		b.reject(ReasonInvalidIdentity, id, "order id 0 is reserved")
		return
	}
	if !b.validPrice(price) {
		b.reject(ReasonInvalidPrice, id, "price %v outside [%v, %v]", price, b.cfg.MinPrice, b.cfg.MaxPrice)
		return
	}
	if !b.validQuantity(qty) {
		b.reject(ReasonInvalidQuantity, id, "quantity %d outside [1, %d]", qty, b.cfg.MaxQuantity)
		return
	}
	if _, exists := b.orders[id]; exists {
		b.reject(ReasonDuplicateIdentity, id, "order id %d already resting", id)
		return
	}

	o := b.orderPool.Get()
	// Recycled slots keep their old contents; rewrite every field.
	*o = Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Quantity:  qty,
		Timestamp: ts,
	}

	b.orders[id] = o
	b.getOrCreateLevel(price, side).appendOrder(o)
	b.version++

	b.match()
}

// CancelOrder removes a resting order. Returns false (with a diagnostic) when
// the id is zero or unknown; the book is unchanged in that case.
func (b *Book) CancelOrder(id uint64) bool {
	if id == 0 {
		b.reject(ReasonInvalidIdentity, id, "order id 0 is reserved")
		return false
	}
	o, exists := b.orders[id]
	if !exists {
		b.reject(ReasonNotFound, id, "order %d not found", id)
		return false
	}

	delete(b.orders, id)
	b.unlink(o)
	b.orderPool.Put(o)
	b.version++
	return true
}

// AmendOrder changes a resting order's price and/or quantity. A quantity-only
// amend updates the order in place and keeps its FIFO position, even when the
// quantity increases. A price change re-queues the order at the tail of the
// level at the new price; it keeps its original id and timestamp but loses
// queue priority. Matching is re-run only when Config.MatchOnAmend is set.
func (b *Book) AmendOrder(id uint64, newPrice float64, newQty uint64) bool {
	if id == 0 {
		b.reject(ReasonInvalidIdentity, id, "order id 0 is reserved")
		return false
	}
	if !b.validPrice(newPrice) {
		b.reject(ReasonInvalidPrice, id, "price %v outside [%v, %v]", newPrice, b.cfg.MinPrice, b.cfg.MaxPrice)
		return false
	}
	if !b.validQuantity(newQty) {
		b.reject(ReasonInvalidQuantity, id, "quantity %d outside [1, %d]", newQty, b.cfg.MaxQuantity)
		return false
	}
	o, exists := b.orders[id]
	if !exists || !o.active {
		b.reject(ReasonNotFound, id, "order %d not found", id)
		return false
	}

	if o.Price == newPrice {
		level := b.getLevel(o.Price, o.Side)
		if level == nil {
			b.reject(ReasonNotFound, id, "no level at %v for order %d", o.Price, id)
			return false
		}
		level.totalQty = level.totalQty - o.Quantity + newQty
		o.Quantity = newQty
	} else {
		b.unlink(o)
		o.Price = newPrice
		o.Quantity = newQty
		b.getOrCreateLevel(newPrice, o.Side).appendOrder(o)
	}

	b.version++

	if b.cfg.MatchOnAmend {
		b.match()
	}
	return true
}

// unlink removes the order from its level and drops the level if it emptied.
func (b *Book) unlink(o *Order) {
	level := b.getLevel(o.Price, o.Side)
	if level == nil {
		return
	}
	level.removeOrder(o)
	if level.isEmpty() {
		b.removeLevel(level, o.Side)
	}
}

func (b *Book) tree(side Side) *btree.BTree {
	if side == SideBuy {
		return b.bids
	}
	return b.asks
}

func (b *Book) probe(price float64, side Side) btree.Item {
	level := &PriceLevel{Price: price}
	if side == SideBuy {
		return &bidItem{level: level}
	}
	return &askItem{level: level}
}

func (b *Book) getOrCreateLevel(price float64, side Side) *PriceLevel {
	if level := b.getLevel(price, side); level != nil {
		return level
	}
	level := b.levelPool.Get()
	level.reset(price)
	if side == SideBuy {
		b.bids.ReplaceOrInsert(&bidItem{level: level})
	} else {
		b.asks.ReplaceOrInsert(&askItem{level: level})
	}
	return level
}

func (b *Book) getLevel(price float64, side Side) *PriceLevel {
	item := b.tree(side).Get(b.probe(price, side))
	if item == nil {
		return nil
	}
	if side == SideBuy {
		return item.(*bidItem).level
	}
	return item.(*askItem).level
}

// removeLevel deletes the index entry and recycles the level slot. The level
// must already be empty.
func (b *Book) removeLevel(level *PriceLevel, side Side) {
	b.tree(side).Delete(b.probe(level.Price, side))
	b.levelPool.Put(level)
}

func (b *Book) bestLevel(side Side) *PriceLevel {
	item := b.tree(side).Min()
	if item == nil {
		return nil
	}
	if side == SideBuy {
		return item.(*bidItem).level
	}
	return item.(*askItem).level
}

// BestBid returns the highest bid price and its aggregate quantity.
// ok is false when no bids rest.
func (b *Book) BestBid() (price float64, qty uint64, ok bool) {
	level := b.bestLevel(SideBuy)
	if level == nil {
		return 0, 0, false
	}
	return level.Price, level.totalQty, true
}

// BestAsk returns the lowest ask price and its aggregate quantity.
// ok is false when no asks rest.
func (b *Book) BestAsk() (price float64, qty uint64, ok bool) {
	level := b.bestLevel(SideSell)
	if level == nil {
		return 0, 0, false
	}
	return level.Price, level.totalQty, true
}

// Spread is best ask minus best bid, or 0 when either side is empty.
func (b *Book) Spread() float64 {
	bid, _, hasBid := b.BestBid()
	ask, _, hasAsk := b.BestAsk()
	if !hasBid || !hasAsk {
		return 0
	}
	return ask - bid
}

// LevelSnapshot is one aggregated (price, quantity) entry of a snapshot.
type LevelSnapshot struct {
	Price    float64
	Quantity uint64
}

// Snapshot returns up to depth aggregated levels per side, bids from best
// (highest) down and asks from best (lowest) up.
func (b *Book) Snapshot(depth int) (bids, asks []LevelSnapshot) {
	if depth < 0 {
		depth = 0
	}
	bids = make([]LevelSnapshot, 0, depth)
	asks = make([]LevelSnapshot, 0, depth)

	b.bids.Ascend(func(item btree.Item) bool {
		if len(bids) >= depth {
			return false
		}
		level := item.(*bidItem).level
		bids = append(bids, LevelSnapshot{Price: level.Price, Quantity: level.totalQty})
		return true
	})

	b.asks.Ascend(func(item btree.Item) bool {
		if len(asks) >= depth {
			return false
		}
		level := item.(*askItem).level
		asks = append(asks, LevelSnapshot{Price: level.Price, Quantity: level.totalQty})
		return true
	})

	return bids, asks
}

// OrderInfo is a read-only copy of a resting order's public fields.
type OrderInfo struct {
	ID        uint64
	Side      Side
	Price     float64
	Remaining uint64
	Timestamp uint64
}

// Order returns a copy of the resting order with the given id.
func (b *Book) Order(id uint64) (OrderInfo, bool) {
	o, exists := b.orders[id]
	if !exists {
		return OrderInfo{}, false
	}
	return OrderInfo{
		ID:        o.ID,
		Side:      o.Side,
		Price:     o.Price,
		Remaining: o.Quantity,
		Timestamp: o.Timestamp,
	}, true
}

// Version is bumped on every successful mutation and never otherwise.
func (b *Book) Version() uint64 { return b.version }

// OrderCount is the number of orders currently resting.
func (b *Book) OrderCount() int { return len(b.orders) }

// BidLevels is the number of distinct bid prices.
func (b *Book) BidLevels() int { return b.bids.Len() }

// AskLevels is the number of distinct ask prices.
func (b *Book) AskLevels() int { return b.asks.Len() }
