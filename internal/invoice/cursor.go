package invoice

// Cursor is the running vertical offset used to place the next region. Its methods never
// move it upwards.
type Cursor struct {
	y float64
}

// NewCursor starts a cursor at y.
func NewCursor(y float64) Cursor {
	return Cursor{y: y}
}

// Y returns the current offset.
func (c Cursor) Y() float64 {
	return c.y
}

// AdvanceTo moves the cursor down to y. Offsets above the cursor are ignored.
func (c Cursor) AdvanceTo(y float64) Cursor {
	if y > c.y {
		c.y = y
	}
	return c
}

// Advance moves the cursor down by dy. Negative steps are ignored.
func (c Cursor) Advance(dy float64) Cursor {
	if dy > 0 {
		c.y += dy
	}
	return c
}
