// v4
// internal/stream/file.go
package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileProducer appends one JSONL record per Produce call. Every record is
// flushed and synced before Produce returns so a concurrent tailer only
// ever misses the line currently being written.
type FileProducer struct {
	mu     sync.Mutex
	path   string
	log    *slog.Logger
	file   *os.File
	writer *bufio.Writer
}

// NewFileProducer opens the stream file for appending, creating parent
// directories as needed. With truncate set, a pre-existing file is cleared
// for a fresh run.
func NewFileProducer(path string, truncate bool, log *slog.Logger) (*FileProducer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	flags := os.O_CREATE | os.O_APPEND | os.O_WRONLY
	if truncate {
		flags = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, err
	}
	log.Info("file producer ready", "path", path, "truncate", truncate)
	return &FileProducer{path: path, log: log, file: f, writer: bufio.NewWriter(f)}, nil
}

func (p *FileProducer) Produce(_ context.Context, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.writer.Write(value); err != nil {
		return err
	}
	if err := p.writer.WriteByte('\n'); err != nil {
		return err
	}
	if err := p.writer.Flush(); err != nil {
		return err
	}
	return p.file.Sync()
}

func (p *FileProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer != nil {
		_ = p.writer.Flush()
	}
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// FileConsumer tails a JSONL file by polling from a remembered byte
// offset, the way a Kafka consumer tracks its position. It waits for the
// file to exist, so the consumer side may start first, and it never
// surfaces a partially written last line: only bytes up to the final
// newline advance the offset.
type FileConsumer struct {
	path     string
	interval time.Duration
	finite   bool
	log      *slog.Logger

	mu     sync.Mutex
	offset int64
}

// NewFileConsumer builds a tailer. With finite set, Consume drains the
// current backlog and closes the channel instead of polling forever.
func NewFileConsumer(path string, interval time.Duration, finite bool, log *slog.Logger) *FileConsumer {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &FileConsumer{path: path, interval: interval, finite: finite, log: log}
}

// Offset reports the current committed byte position. Safe to call from
// any goroutine while Consume runs.
func (c *FileConsumer) Offset() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Lag reports how many bytes of complete or in-flight data remain beyond
// the committed offset.
func (c *FileConsumer) Lag() int64 {
	info, err := os.Stat(c.path)
	if err != nil {
		return 0
	}
	lag := info.Size() - c.Offset()
	if lag < 0 {
		return 0
	}
	return lag
}

func (c *FileConsumer) Consume(ctx context.Context) (<-chan Record, error) {
	out := make(chan Record)
	go func() {
		defer close(out)
		waitLogged := false
		for {
			if ctx.Err() != nil {
				return
			}
			recs, err := c.poll()
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					if !waitLogged {
						c.log.Info("waiting for stream file", "path", c.path)
						waitLogged = true
					}
				} else {
					c.log.Error("poll failed", "path", c.path, "err", err)
				}
				if c.finite {
					return
				}
				if !sleepCtx(ctx, c.interval) {
					return
				}
				continue
			}
			waitLogged = false
			for _, r := range recs {
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
			if c.finite {
				return
			}
			if !sleepCtx(ctx, c.interval) {
				return
			}
		}
	}()
	return out, nil
}

// poll reads every complete line appended since the last committed offset.
func (c *FileConsumer) poll() ([]Record, error) {
	offset := c.Offset()
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	// Hold back anything after the last newline: a writer may be mid-line.
	cut := bytes.LastIndexByte(data, '\n')
	if cut < 0 {
		return nil, nil
	}
	complete := data[:cut+1]
	var recs []Record
	start := 0
	for {
		nl := bytes.IndexByte(complete[start:], '\n')
		if nl < 0 {
			break
		}
		line := bytes.TrimSpace(complete[start : start+nl])
		off := offset + int64(start)
		start += nl + 1
		if len(line) == 0 {
			continue
		}
		recs = append(recs, Record{Value: append([]byte(nil), line...), Offset: off})
	}
	c.mu.Lock()
	c.offset = offset + int64(len(complete))
	c.mu.Unlock()
	return recs, nil
}

func (c *FileConsumer) Close() error { return nil }

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
