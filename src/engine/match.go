package engine

import (
	"time"

	"github.com/google/uuid"
)

// match drains every crossing between the best bid and best ask. It runs
// once after each successful add (and after an amend when MatchOnAmend is
// set); because that is the only call site the loop can never re-enter
// itself, so no guard flag is needed.
//
// Each pass takes the head order of the best level on each side, the oldest
// resting order at the best price, and trades the smaller remaining
// quantity. The trade prints at the price of the head with the earlier
// timestamp: a newly added order can never be older than one already
// resting, so the incoming order always trades at the resting order's price.
func (b *Book) match() {
	for {
		bidLevel := b.bestLevel(SideBuy)
		askLevel := b.bestLevel(SideSell)
		if bidLevel == nil || askLevel == nil {
			return
		}
		if bidLevel.Price < askLevel.Price {
			return
		}

		bid := bidLevel.Front()
		ask := askLevel.Front()
		// Empty levels are removed from the index before the loop comes
		// back around, so these guards should never fire.
		if bid == nil || ask == nil || !bid.active || !ask.active {
			return
		}

		qty := bid.Quantity
		if ask.Quantity < qty {
			qty = ask.Quantity
		}

		price := ask.Price
		if bid.Timestamp <= ask.Timestamp {
			price = bid.Price
		}

		bid.Quantity -= qty
		ask.Quantity -= qty
		bidLevel.totalQty -= qty
		askLevel.totalQty -= qty

		b.trades.OnTrade(Trade{
			TradeID:   uuid.New().String(),
			BidID:     bid.ID,
			AskID:     ask.ID,
			Price:     price,
			Quantity:  qty,
			Timestamp: time.Now().UnixMilli(),
		})

		b.releaseIfFilled(bid, bidLevel, SideBuy)
		b.releaseIfFilled(ask, askLevel, SideSell)
	}
}

// releaseIfFilled retires a fully filled head: out of the FIFO, out of the
// id lookup, slot back to the arena, and the level with it when it emptied.
func (b *Book) releaseIfFilled(o *Order, level *PriceLevel, side Side) {
	if o.Quantity != 0 {
		return
	}
	level.removeOrder(o)
	delete(b.orders, o.ID)
	b.orderPool.Put(o)
	if level.isEmpty() {
		b.removeLevel(level, side)
	}
}
