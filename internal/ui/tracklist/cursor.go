package tracklist

// cursor tracks the selected row and scroll offset. The list length and
// viewport height are passed in since both change with the filter and
// the terminal size.
type cursor struct {
	pos    int
	offset int // first visible row
	margin int // rows kept visible around pos
}

func (c *cursor) move(delta, n, height int) {
	c.jump(c.pos+delta, n, height)
}

func (c *cursor) jump(pos, n, height int) {
	if n == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.pos = clamp(pos, n-1)
	c.ensureVisible(n, height)
}

func (c *cursor) ensureVisible(n, height int) {
	if height <= 0 || n == 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(n-height, 0))
}

// scroll moves the viewport without moving the cursor past it.
func (c *cursor) scroll(delta, n, height int) {
	if n == 0 || height <= 0 {
		return
	}
	c.offset = clamp(c.offset+delta, max(n-height, 0))
	c.pos = max(min(c.pos, c.offset+height-1), c.offset)
	c.pos = clamp(c.pos, n-1)
}

func (c cursor) visibleRange(n, height int) (start, end int) {
	if n == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, n)
}

func clamp(v, maxVal int) int {
	return max(min(v, maxVal), 0)
}
