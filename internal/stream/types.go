// Package stream encodes a sequence of items as a chunked JSON array.
// Items are fetched from a channel, transformed one at a time, and the
// encoded array is flushed to the caller in buffers of roughly
// ChunkThreshold bytes, ready for middleware.sendStream.
//
// Usage:
//
//	streamer := stream.NewDefaultStreamer[domain.Ticket]()
//	resp := streamer.Stream(ctx, stream.SliceFetcher(tickets), func(t domain.Ticket) (interface{}, error) {
//	    return t.View(), nil
//	})
package stream

import (
	"context"
	"weighbridge/middleware"
)

// DataFetcher produces items on the first channel and at most one error on the
// second. Both channels must be closed when the fetcher is done.
type DataFetcher[T any] func(ctx context.Context) (<-chan T, <-chan error)

// Transformer maps an item to its JSON-encodable output
type Transformer[T any] func(item T) (interface{}, error)

// Streamer turns fetched items into a chunked JSON array response
type Streamer[T any] interface {
	Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse
	GetConfig() ChunkConfig
}

// ChunkConfig controls buffering. Zero values fall back to defaults.
type ChunkConfig struct {
	// ChunkThreshold is the buffered size in bytes that triggers a flush
	ChunkThreshold int
	// BufferSize is the initial capacity of pooled buffers
	BufferSize int
	// ChannelBuffer is the capacity of the chunk channel
	ChannelBuffer int
}

// DefaultChunkConfig returns 32KB chunks from 50KB buffers with a 4-deep channel
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkThreshold: 32 * 1024,
		BufferSize:     50 * 1024,
		ChannelBuffer:  4,
	}
}

// withDefaults fills zero or negative fields
func (c ChunkConfig) withDefaults() ChunkConfig {
	d := DefaultChunkConfig()
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = d.ChunkThreshold
	}
	if c.BufferSize <= 0 {
		c.BufferSize = d.BufferSize
	}
	if c.ChannelBuffer <= 0 {
		c.ChannelBuffer = d.ChannelBuffer
	}
	return c
}
