package engine

// Config carries the book's validation bounds and allocator tuning. The
// defaults mirror the usual exchange-style limits but every value is a
// deployment knob, never a hard-coded constant inside the book.
type Config struct {
	MinPrice    float64
	MaxPrice    float64
	MaxQuantity uint64

	// BlockSize is the slab size of the order and level arenas.
	BlockSize int

	// MatchOnAmend controls whether an amend re-runs the crossing loop.
	// Off by default: an amend is not a taker action, and an amend that
	// crosses the book leaves it crossed until the next add. Turning this
	// on drains the cross immediately.
	MatchOnAmend bool
}

func DefaultConfig() Config {
	return Config{
		MinPrice:    0.01,
		MaxPrice:    1_000_000.0,
		MaxQuantity: 1_000_000,
		BlockSize:   1024,
	}
}
