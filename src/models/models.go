package models

type SubmitOrderRequest struct {
	OrderID  uint64  `json:"order_id"` // optional; assigned when omitted
	Side     string  `json:"side"`
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
}

type AmendOrderRequest struct {
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"`
}

type SubmitOrderResponse struct {
	OrderID           uint64      `json:"order_id"`
	Status            string      `json:"status"`
	Message           string      `json:"message,omitempty"`
	FilledQuantity    uint64      `json:"filled_quantity"`
	RemainingQuantity uint64      `json:"remaining_quantity"`
	Trades            []TradeInfo `json:"trades,omitempty"`
	BookVersion       uint64      `json:"book_version"`
}

type TradeInfo struct {
	TradeID   string  `json:"trade_id"`
	BidID     uint64  `json:"bid_order_id"`
	AskID     uint64  `json:"ask_order_id"`
	Price     float64 `json:"price"`
	Quantity  uint64  `json:"quantity"`
	Timestamp int64   `json:"timestamp"` // unix timestamp in milliseconds
}

type CancelOrderResponse struct {
	OrderID     uint64 `json:"order_id"`
	Status      string `json:"status"`
	BookVersion uint64 `json:"book_version"`
}

type AmendOrderResponse struct {
	OrderID           uint64  `json:"order_id"`
	Status            string  `json:"status"`
	Price             float64 `json:"price"`
	RemainingQuantity uint64  `json:"remaining_quantity"`
	BookVersion       uint64  `json:"book_version"`
}

type OrderStatusResponse struct {
	OrderID           uint64  `json:"order_id"`
	Side              string  `json:"side"`
	Price             float64 `json:"price"`
	RemainingQuantity uint64  `json:"remaining_quantity"`
	Timestamp         uint64  `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PriceLevelInfo struct {
	Price    float64 `json:"price"`
	Quantity uint64  `json:"quantity"` // aggregated quantity at this price
}

type BookResponse struct {
	Timestamp int64            `json:"timestamp"` // unix timestamp in milliseconds
	Bids      []PriceLevelInfo `json:"bids"`      // sorted descending (highest first)
	Asks      []PriceLevelInfo `json:"asks"`      // sorted ascending (lowest first)
	BestBid   *float64         `json:"best_bid"`
	BestAsk   *float64         `json:"best_ask"`
	Spread    float64          `json:"spread"`
	Version   uint64           `json:"version"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	RestingOrders int64  `json:"resting_orders"`
	BookVersion   uint64 `json:"book_version"`
}
