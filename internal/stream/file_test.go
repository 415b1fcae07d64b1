// v2
// internal/stream/file_test.go
package stream

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	p, err := NewFileProducer(path, true, testLogger())
	if err != nil {
		t.Fatalf("producer: %v", err)
	}
	want := []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}
	for _, v := range want {
		if err := p.Produce(context.Background(), []byte(v)); err != nil {
			t.Fatalf("produce: %v", err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c := NewFileConsumer(path, 10*time.Millisecond, true, testLogger())
	ch, err := c.Consume(context.Background())
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	var got []string
	for r := range ch {
		got = append(got, string(r.Value))
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestFileConsumerHoldsBackPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte("{\"n\":1}\n{\"n\":2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewFileConsumer(path, 10*time.Millisecond, true, testLogger())
	recs, err := c.poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(recs) != 1 || string(recs[0].Value) != `{"n":1}` {
		t.Fatalf("expected only the complete line, got %v", recs)
	}
	if c.Offset() != int64(len("{\"n\":1}\n")) {
		t.Fatalf("offset advanced past partial line: %d", c.Offset())
	}

	// Completing the line makes it visible on the next poll.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("}\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()
	recs, err = c.poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(recs) != 1 || string(recs[0].Value) != `{"n":2}` {
		t.Fatalf("expected completed line, got %v", recs)
	}
}

func TestFileConsumerWaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.jsonl")
	c := NewFileConsumer(path, 10*time.Millisecond, false, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := c.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	p, err := NewFileProducer(path, false, testLogger())
	if err != nil {
		t.Fatalf("producer: %v", err)
	}
	if err := p.Produce(context.Background(), []byte(`{"late":true}`)); err != nil {
		t.Fatalf("produce: %v", err)
	}
	p.Close()

	select {
	case r := <-ch:
		if string(r.Value) != `{"late":true}` {
			t.Fatalf("unexpected record %s", r.Value)
		}
	case <-ctx.Done():
		t.Fatalf("record never arrived")
	}
}

func TestFileConsumerSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte("{\"n\":1}\n\n  \n{\"n\":2}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewFileConsumer(path, 10*time.Millisecond, true, testLogger())
	recs, err := c.poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records want 2", len(recs))
	}
}

func TestFileConsumerLag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte("{\"n\":1}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewFileConsumer(path, 10*time.Millisecond, true, testLogger())
	if lag := c.Lag(); lag != 8 {
		t.Fatalf("lag before poll: %d", lag)
	}
	if _, err := c.poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if lag := c.Lag(); lag != 0 {
		t.Fatalf("lag after poll: %d", lag)
	}
}

func TestFileConsumerLagConcurrentWithConsume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	p, err := NewFileProducer(path, true, testLogger())
	if err != nil {
		t.Fatalf("producer: %v", err)
	}
	c := NewFileConsumer(path, time.Millisecond, false, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := c.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	const total = 50
	go func() {
		for i := 0; i < total; i++ {
			if err := p.Produce(context.Background(), []byte(`{"n":1}`)); err != nil {
				return
			}
		}
		p.Close()
	}()

	// Reading position from another goroutine after each record, the way
	// the processing loop reports lag while the tailer keeps polling.
	deadline := time.After(5 * time.Second)
	for n := 0; n < total; {
		select {
		case <-ch:
			n++
			if lag := c.Lag(); lag < 0 {
				t.Fatalf("negative lag %d", lag)
			}
			if off := c.Offset(); off < 0 {
				t.Fatalf("negative offset %d", off)
			}
		case <-deadline:
			t.Fatalf("timed out after %d records", n)
		}
	}
}

func TestFreshRunTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := NewFileProducer(path, true, testLogger())
	if err != nil {
		t.Fatalf("producer: %v", err)
	}
	if err := p.Produce(context.Background(), []byte("fresh")); err != nil {
		t.Fatalf("produce: %v", err)
	}
	p.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fresh\n" {
		t.Fatalf("file not truncated: %q", data)
	}
}
