package engine

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order is a resting limit order. While resting it belongs to exactly one
// price level's FIFO queue; prev/next are the intrusive links for that queue.
// Records live in the book's arena and are recycled on full fill, cancel, or
// a price-changing amend, so every field must be rewritten when a slot is
// reused.
type Order struct {
	ID        uint64
	Side      Side
	Price     float64
	Quantity  uint64 // remaining, decremented as fills happen
	Timestamp uint64 // arrival order, used only for tie-breaking

	active bool
	prev   *Order
	next   *Order
}

// Trade is one individual match between two resting heads.
type Trade struct {
	TradeID   string
	BidID     uint64
	AskID     uint64
	Price     float64
	Quantity  uint64
	Timestamp int64 // unix timestamp in milliseconds
}

// TradeSink receives one call per match. The engine never writes to a console
// itself; production wires this to a logger, tests to a collector.
type TradeSink interface {
	OnTrade(Trade)
}

// Reason classifies why an operation was rejected.
type Reason string

const (
	ReasonInvalidIdentity   Reason = "INVALID_IDENTITY"
	ReasonInvalidPrice      Reason = "INVALID_PRICE"
	ReasonInvalidQuantity   Reason = "INVALID_QUANTITY"
	ReasonDuplicateIdentity Reason = "DUPLICATE_IDENTITY"
	ReasonNotFound          Reason = "NOT_FOUND"
)

// Diagnostic describes a rejected operation. Rejections are expected
// conditions: the operation is a no-op and the book stays unchanged.
type Diagnostic struct {
	Reason  Reason
	OrderID uint64
	Detail  string
}

type DiagnosticSink interface {
	OnDiagnostic(Diagnostic)
}

// Nop sinks discard everything; used when a caller only wants the book state.
type NopTradeSink struct{}

func (NopTradeSink) OnTrade(Trade) {}

type NopDiagnosticSink struct{}

func (NopDiagnosticSink) OnDiagnostic(Diagnostic) {}
