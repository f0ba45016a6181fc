package stream

import "sync"

// BufferPool recycles JSON encoding buffers between chunks
type BufferPool interface {
	// Get returns an empty buffer with at least the pool's initial capacity
	Get() *[]byte
	// Put returns a buffer; nil is ignored
	Put(buf *[]byte)
}

type bufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a pool whose fresh buffers have initialSize capacity
func NewBufferPool(initialSize int) BufferPool {
	if initialSize <= 0 {
		initialSize = DefaultChunkConfig().BufferSize
	}

	p := &bufferPool{}
	p.pool.New = func() interface{} {
		buf := make([]byte, 0, initialSize)
		return &buf
	}
	return p
}

func (p *bufferPool) Get() *[]byte {
	buf := p.pool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

func (p *bufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}
