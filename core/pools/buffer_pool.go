package pools

import "sync"

// DefaultBufferSize matches the connection handler's read chunk size.
const DefaultBufferSize = 4096

// BufferPool recycles the fixed-size byte slices the connection handlers
// read into, so each accepted connection does not allocate a fresh buffer.
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a pool of size-byte buffers.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = DefaultBufferSize
	}
	bp := &BufferPool{size: size}
	bp.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return bp
}

// Get returns a buffer of the pool's size.
func (bp *BufferPool) Get() []byte {
	return *bp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers of the wrong size are dropped.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) != bp.size {
		return
	}
	buf = buf[:bp.size]
	bp.pool.Put(&buf)
}

// Size reports the pooled buffer size.
func (bp *BufferPool) Size() int {
	return bp.size
}
