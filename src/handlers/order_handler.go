package handlers

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"limit-book/src/config"
	"limit-book/src/engine"
	"limit-book/src/models"
	"limit-book/src/render"
)

// OrderHandler owns the book and the mutex that serializes access to it: the
// core itself is single-threaded by design, and this is the external
// mutual-exclusion wrapper around it. The handler is also the book's trade
// and diagnostic sink, so fills and rejections surface in the log, in the
// prometheus counters, and in the response for the request that caused them.
type OrderHandler struct {
	mu   sync.Mutex
	book *engine.Book
	cfg  *config.Config

	StartTime time.Time

	nextID uint64 // assigned ids for requests that omit one
	clock  uint64 // arrival stamps, strictly increasing per mutation

	pendingTrades []engine.Trade
	lastDiag      *engine.Diagnostic

	metrics  *Metrics
	registry *prometheus.Registry
}

func NewOrderHandler(cfg *config.Config) *OrderHandler {
	h := &OrderHandler{
		cfg:       cfg,
		StartTime: time.Now(),
		registry:  prometheus.NewRegistry(),
	}
	h.metrics = NewMetrics(h.registry)
	h.book = engine.NewBook(cfg.Book.Engine(), h, h)
	return h
}

// OnTrade implements engine.TradeSink. Called synchronously while the book
// mutex is held by the request being processed.
func (h *OrderHandler) OnTrade(t engine.Trade) {
	h.pendingTrades = append(h.pendingTrades, t)
	h.metrics.TradesExecuted.Inc()

	log.Info().
		Str("trade_id", t.TradeID).
		Uint64("bid_order_id", t.BidID).
		Uint64("ask_order_id", t.AskID).
		Float64("price", t.Price).
		Uint64("quantity", t.Quantity).
		Msg("Trade executed")
}

// OnDiagnostic implements engine.DiagnosticSink.
func (h *OrderHandler) OnDiagnostic(d engine.Diagnostic) {
	diag := d
	h.lastDiag = &diag
	h.metrics.OrdersRejected.Inc()

	log.Warn().
		Str("reason", string(d.Reason)).
		Uint64("order_id", d.OrderID).
		Str("detail", d.Detail).
		Msg("Operation rejected")
}

// beginOp resets the per-request sink state. Must be called with mu held.
func (h *OrderHandler) beginOp() {
	h.pendingTrades = h.pendingTrades[:0]
	h.lastDiag = nil
}

func (h *OrderHandler) syncGauges() {
	h.metrics.RestingOrders.Set(float64(h.book.OrderCount()))
	h.metrics.BookVersion.Set(float64(h.book.Version()))
}

func rejectStatus(d *engine.Diagnostic) int {
	switch d.Reason {
	case engine.ReasonDuplicateIdentity:
		return fiber.StatusConflict
	case engine.ReasonNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadRequest
	}
}

func (h *OrderHandler) SubmitOrder(c *fiber.Ctx) error {
	var req models.SubmitOrderRequest

	if err := c.BodyParser(&req); err != nil {
		log.Warn().
			Err(err).
			Str("ip", c.IP()).
			Str("path", c.Path()).
			Msg("Invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	if req.Side != "BUY" && req.Side != "SELL" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order: side must be BUY or SELL",
		})
	}
	side := engine.Side(req.Side)

	h.mu.Lock()
	defer h.mu.Unlock()

	id := req.OrderID
	if id == 0 {
		h.nextID++
		id = h.nextID
	}
	h.clock++

	h.beginOp()
	h.book.AddOrder(id, side, req.Price, req.Quantity, h.clock)

	if h.lastDiag != nil {
		return c.Status(rejectStatus(h.lastDiag)).JSON(models.ErrorResponse{
			Error: h.lastDiag.Detail,
		})
	}

	h.metrics.OrdersAccepted.Inc()
	h.syncGauges()

	// An amend can leave the book crossed (matching does not re-run by
	// default), and the next add drains that backlog before the incoming
	// order trades. Backlog trades are reported, but only the submitted
	// id's fills count toward its filled quantity.
	var filled uint64
	trades := make([]models.TradeInfo, 0, len(h.pendingTrades))
	for _, t := range h.pendingTrades {
		if t.BidID == id || t.AskID == id {
			filled += t.Quantity
		}
		trades = append(trades, models.TradeInfo{
			TradeID:   t.TradeID,
			BidID:     t.BidID,
			AskID:     t.AskID,
			Price:     t.Price,
			Quantity:  t.Quantity,
			Timestamp: t.Timestamp,
		})
	}

	remaining := uint64(0)
	if filled < req.Quantity {
		remaining = req.Quantity - filled
	}

	resp := models.SubmitOrderResponse{
		OrderID:           id,
		FilledQuantity:    filled,
		RemainingQuantity: remaining,
		Trades:            trades,
		BookVersion:       h.book.Version(),
	}

	_, resting := h.book.Order(id)

	log.Info().
		Uint64("order_id", id).
		Str("side", req.Side).
		Float64("price", req.Price).
		Uint64("quantity", req.Quantity).
		Uint64("filled_quantity", filled).
		Bool("resting", resting).
		Int("trades_count", len(trades)).
		Msg("Order processed")

	switch {
	case resting && filled == 0:
		resp.Status = "ACCEPTED"
		resp.Message = "Order added to book"
		return c.Status(fiber.StatusCreated).JSON(resp)
	case resting:
		resp.Status = "PARTIAL_FILL"
		return c.Status(fiber.StatusAccepted).JSON(resp)
	default:
		resp.Status = "FILLED"
		return c.Status(fiber.StatusOK).JSON(resp)
	}
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order id",
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.beginOp()
	if !h.book.CancelOrder(id) {
		return c.Status(rejectStatus(h.lastDiag)).JSON(models.ErrorResponse{
			Error: h.lastDiag.Detail,
		})
	}

	h.metrics.OrdersCancelled.Inc()
	h.syncGauges()

	log.Info().
		Uint64("order_id", id).
		Str("ip", c.IP()).
		Msg("Order cancelled")

	return c.Status(fiber.StatusOK).JSON(models.CancelOrderResponse{
		OrderID:     id,
		Status:      "CANCELLED",
		BookVersion: h.book.Version(),
	})
}

func (h *OrderHandler) AmendOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order id",
		})
	}

	var req models.AmendOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.beginOp()
	if !h.book.AmendOrder(id, req.Price, req.Quantity) {
		return c.Status(rejectStatus(h.lastDiag)).JSON(models.ErrorResponse{
			Error: h.lastDiag.Detail,
		})
	}

	h.metrics.OrdersAmended.Inc()
	h.syncGauges()

	resp := models.AmendOrderResponse{
		OrderID:     id,
		Status:      "AMENDED",
		BookVersion: h.book.Version(),
	}
	// With match-on-amend enabled the order may have traded away entirely.
	if info, ok := h.book.Order(id); ok {
		resp.Price = info.Price
		resp.RemainingQuantity = info.Remaining
	} else {
		resp.Price = req.Price
	}

	log.Info().
		Uint64("order_id", id).
		Float64("price", req.Price).
		Uint64("quantity", req.Quantity).
		Msg("Order amended")

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *OrderHandler) GetOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order id",
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	info, ok := h.book.Order(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Order not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.OrderStatusResponse{
		OrderID:           info.ID,
		Side:              string(info.Side),
		Price:             info.Price,
		RemainingQuantity: info.Remaining,
		Timestamp:         info.Timestamp,
	})
}

func (h *OrderHandler) GetBook(c *fiber.Ctx) error {
	depthStr := c.Query("depth", strconv.Itoa(h.cfg.Depth.Default))
	depth, err := strconv.Atoi(depthStr)
	if err != nil || depth <= 0 {
		depth = h.cfg.Depth.Default
	}
	// edge case: enforce maximum depth limit
	if depth > h.cfg.Depth.Max {
		depth = h.cfg.Depth.Max
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusOK).SendString(render.Book(h.book, depth))
	}

	bidLevels, askLevels := h.book.Snapshot(depth)

	bids := make([]models.PriceLevelInfo, 0, len(bidLevels))
	for _, level := range bidLevels {
		bids = append(bids, models.PriceLevelInfo{Price: level.Price, Quantity: level.Quantity})
	}
	asks := make([]models.PriceLevelInfo, 0, len(askLevels))
	for _, level := range askLevels {
		asks = append(asks, models.PriceLevelInfo{Price: level.Price, Quantity: level.Quantity})
	}

	resp := models.BookResponse{
		Timestamp: time.Now().UnixMilli(),
		Bids:      bids,
		Asks:      asks,
		Spread:    h.book.Spread(),
		Version:   h.book.Version(),
	}
	if bid, _, ok := h.book.BestBid(); ok {
		resp.BestBid = &bid
	}
	if ask, _, ok := h.book.BestAsk(); ok {
		resp.BestAsk = &ask
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *OrderHandler) HealthCheck(c *fiber.Ctx) error {
	h.mu.Lock()
	resting := int64(h.book.OrderCount())
	version := h.book.Version()
	h.mu.Unlock()

	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.StartTime).Seconds()),
		RestingOrders: resting,
		BookVersion:   version,
	})
}

// RestingOrders feeds the availability middleware's capacity check.
func (h *OrderHandler) RestingOrders() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int64(h.book.OrderCount())
}

// MetricsHandler serves the prometheus registry.
func (h *OrderHandler) MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
}
