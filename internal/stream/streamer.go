package stream

import (
	"context"
	"fmt"
	"net/http"
	"weighbridge/middleware"

	json "github.com/json-iterator/go"
)

// streamer is safe for concurrent use; each Stream call owns its goroutine and buffers
type streamer[T any] struct {
	config     ChunkConfig
	bufferPool BufferPool
}

// NewStreamer creates a Streamer with the given configuration
func NewStreamer[T any](config ChunkConfig) Streamer[T] {
	config = config.withDefaults()
	return &streamer[T]{
		config:     config,
		bufferPool: NewBufferPool(config.BufferSize),
	}
}

// NewDefaultStreamer creates a Streamer with DefaultChunkConfig
func NewDefaultStreamer[T any]() Streamer[T] {
	return NewStreamer[T](DefaultChunkConfig())
}

func (s *streamer[T]) GetConfig() ChunkConfig {
	return s.config
}

// Stream encodes every fetched item as one element of a JSON array.
// It stops at the first fetcher, transformer or encoding error, sending it as
// a chunk error, and stops silently when ctx is cancelled.
// Emitted buffers belong to the consumer until handed to the response's Release.
func (s *streamer[T]) Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse {
	chunkChan := make(chan middleware.StreamChunk, s.config.ChannelBuffer)

	go func() {
		defer close(chunkChan)

		emit := func(chunk middleware.StreamChunk) bool {
			select {
			case chunkChan <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		jsonBuf := s.bufferPool.Get()
		defer func() {
			if jsonBuf != nil {
				s.bufferPool.Put(jsonBuf)
			}
		}()

		*jsonBuf = append(*jsonBuf, '[')
		dataChan, errChan := fetcher(ctx)
		first := true

		for {
			select {
			case <-ctx.Done():
				return

			case err, ok := <-errChan:
				if !ok {
					// fetcher finished without error; keep draining data
					errChan = nil
					continue
				}
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("fetcher error: %w", err)})
					return
				}

			case item, ok := <-dataChan:
				if !ok {
					// an error may be pending if both channels became ready together
					if errChan != nil {
						select {
						case err := <-errChan:
							if err != nil {
								emit(middleware.StreamChunk{Error: fmt.Errorf("fetcher error: %w", err)})
								return
							}
						default:
						}
					}
					*jsonBuf = append(*jsonBuf, ']')
					if emit(middleware.StreamChunk{JSONBuf: jsonBuf}) {
						jsonBuf = nil
					}
					return
				}

				out, err := transformer(item)
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("transformer error: %w", err)})
					return
				}

				encoded, err := json.Marshal(out)
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("JSON marshal error: %w", err)})
					return
				}

				if !first {
					*jsonBuf = append(*jsonBuf, ',')
				}
				first = false
				*jsonBuf = append(*jsonBuf, encoded...)

				if len(*jsonBuf) > s.config.ChunkThreshold {
					if !emit(middleware.StreamChunk{JSONBuf: jsonBuf}) {
						return
					}
					jsonBuf = s.bufferPool.Get()
				}
			}
		}
	}()

	return middleware.StreamResponse{
		TotalCount: -1,
		ChunkChan:  chunkChan,
		Code:       http.StatusOK,
		Release:    s.bufferPool.Put,
	}
}
