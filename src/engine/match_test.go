package engine

import "testing"

// Scenario: an aggressive buy crosses a resting ask and trades at the
// resting order's price; the remainder of the ask keeps resting.
func TestMatchAtRestingOrderPrice(t *testing.T) {
	book, trades, _ := newTestBook()

	book.AddOrder(1, SideBuy, 100.00, 500, 1)
	book.AddOrder(2, SideSell, 101.00, 300, 2)
	book.AddOrder(3, SideBuy, 101.50, 200, 3)

	if len(trades.trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades.trades))
	}

	trade := trades.trades[0]
	if trade.Price != 101.00 {
		t.Errorf("Expected trade at resting price 101.00, got %v", trade.Price)
	}
	if trade.Quantity != 200 {
		t.Errorf("Expected trade quantity 200, got %d", trade.Quantity)
	}
	if trade.BidID != 3 || trade.AskID != 2 {
		t.Errorf("Expected bid 3 / ask 2, got %d/%d", trade.BidID, trade.AskID)
	}

	// Incoming order fully filled and gone.
	if _, ok := book.Order(3); ok {
		t.Error("Fully filled incoming order should not rest")
	}

	// Resting ask partially filled: 100 left.
	info, ok := book.Order(2)
	if !ok {
		t.Fatal("Partially filled ask should still rest")
	}
	if info.Remaining != 100 {
		t.Errorf("Expected ask remaining 100, got %d", info.Remaining)
	}
	_, askQty, _ := book.BestAsk()
	if askQty != 100 {
		t.Errorf("Expected ask level quantity 100, got %d", askQty)
	}

	// The passive bid at 100.00 is untouched.
	bid, bidQty, _ := book.BestBid()
	if bid != 100.00 || bidQty != 500 {
		t.Errorf("Expected best bid 100.00 x 500, got %v x %d", bid, bidQty)
	}
}

// Scenario: three buys at the same price fill in strict arrival order when a
// smaller sell consumes the level partially.
func TestMatchFIFOWithinLevel(t *testing.T) {
	book, trades, _ := newTestBook()

	book.AddOrder(1, SideBuy, 100.00, 100, 1)
	book.AddOrder(2, SideBuy, 100.00, 200, 2)
	book.AddOrder(3, SideBuy, 100.00, 150, 3)

	book.AddOrder(4, SideSell, 100.00, 250, 4)

	if len(trades.trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades.trades))
	}

	if trades.trades[0].BidID != 1 || trades.trades[0].Quantity != 100 {
		t.Errorf("First trade should fill order 1 for 100, got order %d for %d",
			trades.trades[0].BidID, trades.trades[0].Quantity)
	}
	if trades.trades[1].BidID != 2 || trades.trades[1].Quantity != 150 {
		t.Errorf("Second trade should hit order 2 for 150, got order %d for %d",
			trades.trades[1].BidID, trades.trades[1].Quantity)
	}

	// Order 1 gone, order 2 partially filled, order 3 untouched.
	if _, ok := book.Order(1); ok {
		t.Error("Order 1 should be fully filled")
	}
	info2, _ := book.Order(2)
	if info2.Remaining != 50 {
		t.Errorf("Expected order 2 remaining 50, got %d", info2.Remaining)
	}
	info3, _ := book.Order(3)
	if info3.Remaining != 150 {
		t.Errorf("Expected order 3 untouched at 150, got %d", info3.Remaining)
	}

	// The sell is fully consumed and the ask side stays empty.
	if book.AskLevels() != 0 {
		t.Errorf("Expected no ask levels, got %d", book.AskLevels())
	}
	_, qty, _ := book.BestBid()
	if qty != 200 {
		t.Errorf("Expected bid level quantity 200 after fills, got %d", qty)
	}
}

// An aggressive order sweeps multiple price levels, each trade printing at
// the level it consumes, until its own limit stops it.
func TestMatchSweepsMultipleLevels(t *testing.T) {
	book, trades, _ := newTestBook()

	book.AddOrder(1, SideSell, 100.00, 100, 1)
	book.AddOrder(2, SideSell, 100.50, 100, 2)
	book.AddOrder(3, SideSell, 101.00, 100, 3)

	book.AddOrder(4, SideBuy, 100.50, 250, 4)

	if len(trades.trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades.trades))
	}
	if trades.trades[0].Price != 100.00 || trades.trades[0].AskID != 1 {
		t.Errorf("Expected first trade at 100.00 vs ask 1, got %v vs %d",
			trades.trades[0].Price, trades.trades[0].AskID)
	}
	if trades.trades[1].Price != 100.50 || trades.trades[1].AskID != 2 {
		t.Errorf("Expected second trade at 100.50 vs ask 2, got %v vs %d",
			trades.trades[1].Price, trades.trades[1].AskID)
	}

	// 50 of the buy rests at 100.50; the 101.00 ask is out of reach.
	info, ok := book.Order(4)
	if !ok {
		t.Fatal("Remainder of the buy should rest")
	}
	if info.Remaining != 50 {
		t.Errorf("Expected buy remainder 50, got %d", info.Remaining)
	}
	ask, _, _ := book.BestAsk()
	if ask != 101.00 {
		t.Errorf("Expected best ask 101.00, got %v", ask)
	}
	bid, _, _ := book.BestBid()
	if bid != 100.50 {
		t.Errorf("Expected best bid 100.50, got %v", bid)
	}
}

func TestMatchEqualQuantitiesClearsBothSides(t *testing.T) {
	book, trades, _ := newTestBook()

	book.AddOrder(1, SideSell, 100.00, 300, 1)
	book.AddOrder(2, SideBuy, 100.00, 300, 2)

	if len(trades.trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades.trades))
	}
	if book.OrderCount() != 0 {
		t.Errorf("Expected empty book, got %d resting orders", book.OrderCount())
	}
	if book.BidLevels() != 0 || book.AskLevels() != 0 {
		t.Errorf("Expected no levels, got %d/%d", book.BidLevels(), book.AskLevels())
	}
}

// After any add, the book can never be left crossed.
func TestNoCrossAfterAdd(t *testing.T) {
	book, _, _ := newTestBook()

	book.AddOrder(1, SideBuy, 100.00, 100, 1)
	book.AddOrder(2, SideSell, 99.00, 50, 2) // crosses, trades at 100.00

	bid, _, hasBid := book.BestBid()
	ask, _, hasAsk := book.BestAsk()
	if hasBid && hasAsk && bid >= ask {
		t.Errorf("Book left crossed after add: bid %v >= ask %v", bid, ask)
	}

	info, _ := book.Order(1)
	if info.Remaining != 50 {
		t.Errorf("Expected resting bid remaining 50, got %d", info.Remaining)
	}
}

// Default behavior: a price amend that crosses the book does NOT trigger
// matching; the book stays crossed until the next add runs the engine.
func TestAmendDoesNotMatchByDefault(t *testing.T) {
	book, trades, _ := newTestBook()

	book.AddOrder(1, SideBuy, 100.00, 100, 1)
	book.AddOrder(2, SideSell, 101.00, 100, 2)

	// Amend the ask down through the bid.
	if !book.AmendOrder(2, 99.00, 100) {
		t.Fatal("Expected amend to succeed")
	}

	if len(trades.trades) != 0 {
		t.Fatalf("Amend must not match by default, got %d trades", len(trades.trades))
	}

	bid, _, _ := book.BestBid()
	ask, _, _ := book.BestAsk()
	if !(bid >= ask) {
		t.Fatalf("Expected a crossed book (bid %v >= ask %v)", bid, ask)
	}

	// The next add drains the cross.
	book.AddOrder(3, SideBuy, 98.00, 10, 3)
	if len(trades.trades) != 1 {
		t.Fatalf("Expected the next add to drain the cross, got %d trades", len(trades.trades))
	}
	// The resting bid (ts 1) is older than the amended ask (still ts 2), so
	// the trade prints at the bid's price.
	if trades.trades[0].Price != 100.00 {
		t.Errorf("Expected trade at 100.00, got %v", trades.trades[0].Price)
	}
}

func TestAmendMatchesWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MatchOnAmend = true
	trades := &tradeCollector{}
	book := NewBook(cfg, trades, nil)

	book.AddOrder(1, SideBuy, 100.00, 100, 1)
	book.AddOrder(2, SideSell, 101.00, 100, 2)

	if !book.AmendOrder(2, 99.00, 100) {
		t.Fatal("Expected amend to succeed")
	}

	if len(trades.trades) != 1 {
		t.Fatalf("Expected the amend to trigger a match, got %d trades", len(trades.trades))
	}
	if book.OrderCount() != 0 {
		t.Errorf("Expected both orders filled, %d still resting", book.OrderCount())
	}
}

// A single large incoming order chews through many resting orders across
// levels in one match invocation.
func TestMatchLargeAggressorAcrossManyOrders(t *testing.T) {
	book, trades, _ := newTestBook()

	for i := uint64(1); i <= 10; i++ {
		book.AddOrder(i, SideSell, 100.00+float64(i)*0.25, 100, i)
	}

	book.AddOrder(100, SideBuy, 103.00, 1050, 11)

	if len(trades.trades) != 10 {
		t.Fatalf("Expected 10 trades, got %d", len(trades.trades))
	}
	if book.AskLevels() != 0 {
		t.Errorf("Expected all ask levels consumed, got %d", book.AskLevels())
	}
	info, ok := book.Order(100)
	if !ok {
		t.Fatal("Remainder of the aggressor should rest")
	}
	if info.Remaining != 50 {
		t.Errorf("Expected remainder 50, got %d", info.Remaining)
	}
}
