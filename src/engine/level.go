package engine

// PriceLevel is the FIFO queue of all resting orders at one price on one
// side. Membership is an intrusive doubly-linked list through the orders'
// prev/next fields, so append and remove-anywhere are O(1) and arrival order
// is time priority. totalQty always equals the sum of member orders'
// remaining quantities.
type PriceLevel struct {
	Price    float64
	totalQty uint64
	count    int
	head     *Order
	tail     *Order
}

// reset prepares a recycled level slot for use at the given price.
func (l *PriceLevel) reset(price float64) {
	l.Price = price
	l.totalQty = 0
	l.count = 0
	l.head = nil
	l.tail = nil
}

// appendOrder links the order at the queue tail and marks it live.
func (l *PriceLevel) appendOrder(o *Order) {
	o.prev = l.tail
	o.next = nil
	o.active = true
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.totalQty += o.Quantity
	l.count++
}

// removeOrder unlinks the order from wherever it sits (head, middle, or
// tail) and subtracts its current remaining quantity from the aggregate.
// A second removal of the same order is a no-op.
func (l *PriceLevel) removeOrder(o *Order) {
	if !o.active {
		return
	}
	o.active = false

	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.prev = nil
	o.next = nil

	l.totalQty -= o.Quantity
	l.count--
}

func (l *PriceLevel) isEmpty() bool { return l.count == 0 }

// TotalQuantity is the aggregate remaining quantity across members.
func (l *PriceLevel) TotalQuantity() uint64 { return l.totalQty }

// OrderCount is the number of resting orders at this level.
func (l *PriceLevel) OrderCount() int { return l.count }

// Front returns the oldest resting order, or nil when the level is empty.
func (l *PriceLevel) Front() *Order { return l.head }
