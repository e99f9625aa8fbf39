package capture

// DefaultBufferLines is how many raw lines a snapshot can hold.
const DefaultBufferLines = 250_000

// Buffer keeps the most recent raw lines in a ring and counts what fell off
// the front. Not safe for concurrent use.
type Buffer struct {
	ring    []string
	start   int
	max     int
	dropped int
}

// NewBuffer returns a ring holding at most max lines. A non-positive max
// uses DefaultBufferLines. Storage grows on demand up to max.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultBufferLines
	}
	return &Buffer{max: max}
}

// Append stores line, evicting the oldest line when full.
func (b *Buffer) Append(line string) {
	if len(b.ring) < b.max {
		b.ring = append(b.ring, line)
		return
	}
	b.ring[b.start] = line
	b.start = (b.start + 1) % b.max
	b.dropped++
}

// Len returns the number of stored lines.
func (b *Buffer) Len() int { return len(b.ring) }

// Cap returns the configured maximum.
func (b *Buffer) Cap() int { return b.max }

// Dropped returns how many lines were evicted since creation or Reset.
func (b *Buffer) Dropped() int { return b.dropped }

// Lines returns every stored line, oldest first.
func (b *Buffer) Lines() []string {
	return b.Tail(len(b.ring))
}

// Tail returns the newest n lines, oldest first.
func (b *Buffer) Tail(n int) []string {
	count := len(b.ring)
	if n <= 0 || count == 0 {
		return nil
	}
	n = min(n, count)
	out := make([]string, n)
	first := count - n
	for i := range out {
		out[i] = b.ring[(b.start+first+i)%count]
	}
	return out
}

// Reset empties the buffer and zeroes the dropped counter.
func (b *Buffer) Reset() {
	b.ring = nil
	b.start = 0
	b.dropped = 0
}
