// Package render formats a human-readable view of the order book. It consumes
// only the book's public query surface (snapshot, best bid/ask, spread), so
// it sits entirely outside the matching core.
package render

import (
	"fmt"
	"strings"

	"limit-book/src/engine"
)

// Book renders a depth-limited two-column view of bids and asks.
func Book(b *engine.Book, depth int) string {
	bids, asks := b.Snapshot(depth)

	var sb strings.Builder
	sb.WriteString("\n=== ORDER BOOK ===\n")
	sb.WriteString("Bids (Buy)          | Asks (Sell)\n")
	sb.WriteString("Price    | Quantity | Price    | Quantity\n")
	sb.WriteString("---------|----------|----------|----------\n")

	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}
	for i := 0; i < rows; i++ {
		if i < len(bids) {
			fmt.Fprintf(&sb, "%8.2f | %8d", bids[i].Price, bids[i].Quantity)
		} else {
			sb.WriteString("         |         ")
		}
		sb.WriteString(" | ")
		if i < len(asks) {
			fmt.Fprintf(&sb, "%8.2f | %8d", asks[i].Price, asks[i].Quantity)
		} else {
			sb.WriteString("         |         ")
		}
		sb.WriteString("\n")
	}

	if bid, _, ok := b.BestBid(); ok {
		fmt.Fprintf(&sb, "\nBest Bid: %.2f\n", bid)
	} else {
		sb.WriteString("\nBest Bid: -\n")
	}
	if ask, _, ok := b.BestAsk(); ok {
		fmt.Fprintf(&sb, "Best Ask: %.2f\n", ask)
	} else {
		sb.WriteString("Best Ask: -\n")
	}
	fmt.Fprintf(&sb, "Spread: %.2f\n", b.Spread())

	return sb.String()
}
