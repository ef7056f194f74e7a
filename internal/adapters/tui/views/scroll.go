package views

// scroller keeps a cursor inside a window of fixed height over a list
type scroller struct {
	offset int
}

// window returns the visible range [start, end) for a list of total lines
// shown in height rows, moving the window as little as needed to keep cursor
// visible.
func (s *scroller) window(cursor, total, height int) (start, end int) {
	if height <= 0 || total <= height {
		s.offset = 0
		return 0, total
	}
	if cursor < s.offset {
		s.offset = cursor
	}
	if cursor >= s.offset+height {
		s.offset = cursor - height + 1
	}
	s.offset = min(s.offset, total-height)
	return s.offset, s.offset + height
}
