package runner

import "sync"

// FrameBuffer is a versioned snapshot of the last published frame. It is
// written by the stepping goroutine and read by displays.
type FrameBuffer struct {
	mu       sync.RWMutex
	sequence uint64
	frame    []byte
}

// Update stores a copy of the frame and increments the sequence number.
func (f *FrameBuffer) Update(frame []byte) {
	f.mu.Lock()
	f.frame = append(f.frame[:0], frame...)
	f.sequence++
	f.mu.Unlock()
}

// Snapshot returns a copy of the current frame and its sequence number.
// The frame is nil if nothing was published yet.
func (f *FrameBuffer) Snapshot() ([]byte, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.sequence == 0 {
		return nil, 0
	}
	frame := make([]byte, len(f.frame))
	copy(frame, f.frame)
	return frame, f.sequence
}

// Sequence returns the number of published frames.
func (f *FrameBuffer) Sequence() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sequence
}
