package protocol

// compactThreshold bounds the amount of consumed-but-unreleased garbage a
// Reframer will carry before physically discarding it.
const compactThreshold = 4096

// Reframer turns a stream of arbitrarily-chunked bytes into discrete,
// checksum-shaped frames. It never validates the CRC itself — that's the
// Codec's job — it only finds frame boundaries using the sync byte and the
// length field.
type Reframer struct {
	buf     []byte
	offset  int
	resyncs int
}

// NewReframer returns an empty Reframer.
func NewReframer() *Reframer {
	return &Reframer{}
}

// Feed appends a chunk and returns every complete frame it can now extract,
// in arrival order. Frames are full copies, safe to retain past the next
// Feed call. Leading garbage (anything before the next 0x0D) is dropped;
// trailing bytes after a complete frame are retained and rescanned in the
// same call, so back-to-back frames delivered in a single chunk are all
// emitted before Feed returns.
func (r *Reframer) Feed(chunk []byte) [][]byte {
	r.buf = append(r.buf, chunk...)

	var frames [][]byte
	for {
		skipped := false
		for len(r.buf)-r.offset > 1 && r.buf[r.offset] != syncByte {
			r.offset++
			skipped = true
		}
		if skipped {
			r.resyncs++
		}
		if r.offset > compactThreshold {
			r.buf = append([]byte(nil), r.buf[r.offset:]...)
			r.offset = 0
		}

		remaining := r.buf[r.offset:]
		if len(remaining) < 3 {
			break
		}
		length := int(remaining[1])
		total := length + 1
		if len(remaining) <= length {
			break
		}

		var frame []byte
		if r.offset == 0 && len(r.buf) == total {
			frame = r.buf
			r.buf = nil
		} else {
			frame = append([]byte(nil), remaining[:total]...)
			r.buf = append([]byte(nil), r.buf[r.offset+total:]...)
		}
		r.offset = 0
		frames = append(frames, frame)
	}
	return frames
}

// TakeResyncs returns the number of garbage runs dropped since the last
// call and resets the count. The transport layer drains this into its
// resync counter after each Feed.
func (r *Reframer) TakeResyncs() int {
	n := r.resyncs
	r.resyncs = 0
	return n
}
