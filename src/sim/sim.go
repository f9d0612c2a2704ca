// Package sim drives the book outside the server: scripted demo scenarios
// and a seeded random stress run. Both consume the engine only through its
// public operations and sinks.
package sim

import (
	"fmt"
	"io"
	"math/rand"

	"limit-book/src/engine"
	"limit-book/src/render"
)

type printTrades struct{ w io.Writer }

func (p printTrades) OnTrade(t engine.Trade) {
	fmt.Fprintf(p.w, "MATCH: %d @ %.2f (Bid: %d, Ask: %d)\n", t.Quantity, t.Price, t.BidID, t.AskID)
}

type printDiags struct{ w io.Writer }

func (p printDiags) OnDiagnostic(d engine.Diagnostic) {
	fmt.Fprintf(p.w, "REJECT [%s]: %s\n", d.Reason, d.Detail)
}

// RunDemo walks through the canonical scenarios: resting orders and
// queries, cancellation, both amend flavors, matching, FIFO priority, and
// the rejection paths.
func RunDemo(w io.Writer, cfg engine.Config) {
	fmt.Fprintln(w, "=== BASIC FUNCTIONALITY ===")
	book := engine.NewBook(cfg, printTrades{w}, printDiags{w})

	book.AddOrder(1, engine.SideBuy, 100.50, 1000, 1)
	book.AddOrder(2, engine.SideBuy, 100.25, 500, 2)
	book.AddOrder(3, engine.SideBuy, 100.00, 750, 3)
	book.AddOrder(4, engine.SideSell, 100.75, 300, 4)
	book.AddOrder(5, engine.SideSell, 101.00, 400, 5)
	book.AddOrder(6, engine.SideSell, 101.25, 200, 6)
	fmt.Fprint(w, render.Book(book, 10))

	fmt.Fprintln(w, "\nCancelling order 2...")
	fmt.Fprintf(w, "cancel: %v\n", book.CancelOrder(2))

	fmt.Fprintln(w, "Amending order 1 quantity 1000 -> 1500 (same price)...")
	fmt.Fprintf(w, "amend: %v\n", book.AmendOrder(1, 100.50, 1500))

	fmt.Fprintln(w, "Amending order 3 price 100.00 -> 99.75...")
	fmt.Fprintf(w, "amend: %v\n", book.AmendOrder(3, 99.75, 750))
	fmt.Fprint(w, render.Book(book, 10))

	fmt.Fprintln(w, "\n=== MATCHING ===")
	book = engine.NewBook(cfg, printTrades{w}, printDiags{w})
	book.AddOrder(1, engine.SideBuy, 100.00, 500, 1)
	book.AddOrder(2, engine.SideSell, 101.00, 300, 2)
	book.AddOrder(3, engine.SideBuy, 101.50, 200, 3)
	fmt.Fprint(w, render.Book(book, 10))

	fmt.Fprintln(w, "\n=== FIFO PRIORITY ===")
	book = engine.NewBook(cfg, printTrades{w}, printDiags{w})
	book.AddOrder(1, engine.SideBuy, 100.00, 100, 1)
	book.AddOrder(2, engine.SideBuy, 100.00, 200, 2)
	book.AddOrder(3, engine.SideBuy, 100.00, 150, 3)
	book.AddOrder(4, engine.SideSell, 100.00, 250, 4)
	fmt.Fprint(w, render.Book(book, 10))

	fmt.Fprintln(w, "\n=== REJECTIONS ===")
	book.AddOrder(0, engine.SideBuy, 100.00, 100, 5)
	book.AddOrder(10, engine.SideBuy, -5, 100, 6)
	book.AddOrder(11, engine.SideBuy, 100.00, 0, 7)
	book.AddOrder(3, engine.SideBuy, 100.00, 100, 8)
	book.CancelOrder(999)
}

type countTrades struct{ n *int }

func (c countTrades) OnTrade(engine.Trade) { *c.n++ }

type countDiags struct{ n *int }

func (c countDiags) OnDiagnostic(engine.Diagnostic) { *c.n++ }

type StressReport struct {
	Adds    int
	Cancels int
	Amends  int
	Trades  int
	Rejects int

	RestingOrders int
	BidLevels     int
	AskLevels     int
	Version       uint64
}

// RunStress pushes n random operations through a fresh book. The mix skews
// toward adds so the book keeps churning through the matching loop; cancels
// and amends hit both live and dead ids on purpose. Deterministic for a
// given seed.
func RunStress(cfg engine.Config, n int, seed int64) StressReport {
	var rep StressReport
	book := engine.NewBook(cfg, countTrades{&rep.Trades}, countDiags{&rep.Rejects})

	r := rand.New(rand.NewSource(seed))
	nextID := uint64(0)

	randomID := func() uint64 {
		if nextID == 0 {
			return 1
		}
		return 1 + uint64(r.Int63n(int64(nextID)))
	}
	randomPrice := func() float64 {
		// two-decimal prices in a band around 100, so crossings happen
		return float64(9000+r.Intn(2001)) / 100.0
	}

	for i := 0; i < n; i++ {
		ts := uint64(i + 1)
		switch op := r.Intn(10); {
		case op < 6:
			nextID++
			side := engine.SideBuy
			if r.Intn(2) == 1 {
				side = engine.SideSell
			}
			book.AddOrder(nextID, side, randomPrice(), uint64(1+r.Intn(500)), ts)
			rep.Adds++
		case op < 8:
			if book.CancelOrder(randomID()) {
				rep.Cancels++
			}
		default:
			if book.AmendOrder(randomID(), randomPrice(), uint64(1+r.Intn(500))) {
				rep.Amends++
			}
		}
	}

	rep.RestingOrders = book.OrderCount()
	rep.BidLevels = book.BidLevels()
	rep.AskLevels = book.AskLevels()
	rep.Version = book.Version()
	return rep
}
