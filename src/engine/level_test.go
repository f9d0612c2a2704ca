package engine

import "testing"

func makeOrder(id uint64, qty uint64) *Order {
	return &Order{ID: id, Side: SideBuy, Price: 100.0, Quantity: qty, Timestamp: id}
}

func levelIDs(l *PriceLevel) []uint64 {
	var ids []uint64
	for o := l.head; o != nil; o = o.next {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestLevelAppendKeepsArrivalOrder(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	l.appendOrder(makeOrder(1, 100))
	l.appendOrder(makeOrder(2, 200))
	l.appendOrder(makeOrder(3, 150))

	ids := levelIDs(&l)
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("Expected FIFO order [1 2 3], got %v", ids)
	}
	if l.TotalQuantity() != 450 {
		t.Errorf("Expected aggregate quantity 450, got %d", l.TotalQuantity())
	}
	if l.OrderCount() != 3 {
		t.Errorf("Expected 3 members, got %d", l.OrderCount())
	}
}

func TestLevelRemoveHead(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	a := makeOrder(1, 100)
	b := makeOrder(2, 200)
	l.appendOrder(a)
	l.appendOrder(b)

	l.removeOrder(a)

	ids := levelIDs(&l)
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("Expected [2] after removing head, got %v", ids)
	}
	if l.Front() != b || l.tail != b {
		t.Error("Head/tail not updated after head removal")
	}
	if l.TotalQuantity() != 200 {
		t.Errorf("Expected aggregate quantity 200, got %d", l.TotalQuantity())
	}
}

func TestLevelRemoveMiddle(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	a := makeOrder(1, 100)
	b := makeOrder(2, 200)
	c := makeOrder(3, 150)
	l.appendOrder(a)
	l.appendOrder(b)
	l.appendOrder(c)

	l.removeOrder(b)

	ids := levelIDs(&l)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("Expected [1 3] after removing middle, got %v", ids)
	}
	if a.next != c || c.prev != a {
		t.Error("Neighbours not relinked after middle removal")
	}
}

func TestLevelRemoveTail(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	a := makeOrder(1, 100)
	b := makeOrder(2, 200)
	l.appendOrder(a)
	l.appendOrder(b)

	l.removeOrder(b)

	if l.tail != a || a.next != nil {
		t.Error("Tail not updated after tail removal")
	}
}

// Removal must subtract the order's current remaining quantity, not its
// original one, so a partially filled order leaves the aggregate exact.
func TestLevelRemoveUsesCurrentQuantity(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	a := makeOrder(1, 100)
	l.appendOrder(a)

	// simulate a partial fill
	a.Quantity -= 60
	l.totalQty -= 60

	l.removeOrder(a)

	if l.TotalQuantity() != 0 {
		t.Errorf("Expected aggregate quantity 0 after removal, got %d", l.TotalQuantity())
	}
}

func TestLevelRemoveIsIdempotent(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	a := makeOrder(1, 100)
	b := makeOrder(2, 200)
	l.appendOrder(a)
	l.appendOrder(b)

	l.removeOrder(a)
	l.removeOrder(a) // second removal must be a no-op

	if l.OrderCount() != 1 {
		t.Errorf("Expected 1 member after double removal, got %d", l.OrderCount())
	}
	if l.TotalQuantity() != 200 {
		t.Errorf("Expected aggregate quantity 200, got %d", l.TotalQuantity())
	}
}

func TestLevelEmptyAfterRemovingAll(t *testing.T) {
	var l PriceLevel
	l.reset(100.0)

	a := makeOrder(1, 100)
	l.appendOrder(a)
	l.removeOrder(a)

	if !l.isEmpty() {
		t.Error("Level should be empty")
	}
	if l.head != nil || l.tail != nil {
		t.Error("Head/tail should be nil on an empty level")
	}
}
