package iohelper

import (
	"io"
	"strings"
	"testing"
)

func TestReadBody(t *testing.T) {
	t.Run("nil reader", func(t *testing.T) {
		body, err := ReadBody(nil, DefaultBodySize)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 0 {
			t.Errorf("expected empty body, got %d bytes", len(body))
		}
	})

	t.Run("respects cap", func(t *testing.T) {
		body, err := ReadBody(strings.NewReader(strings.Repeat("a", 100)), 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 10 {
			t.Errorf("expected 10 bytes, got %d", len(body))
		}
	})

	t.Run("small cap", func(t *testing.T) {
		body, err := ReadBodySmall(strings.NewReader(strings.Repeat("b", int(SmallBodySize)+512)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if int64(len(body)) != SmallBodySize {
			t.Errorf("expected %d bytes, got %d", SmallBodySize, len(body))
		}
	})

	t.Run("short input", func(t *testing.T) {
		body, err := ReadBodyDefault(strings.NewReader("hello"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "hello" {
			t.Errorf("expected hello, got %q", body)
		}
	})
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestDrainAndClose(t *testing.T) {
	if err := DrainAndClose(nil); err != nil {
		t.Fatalf("nil reader: %v", err)
	}

	ct := &closeTracker{Reader: strings.NewReader("leftover data")}
	if err := DrainAndClose(ct); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ct.closed {
		t.Error("expected reader to be closed")
	}
	if n, _ := ct.Read(make([]byte, 1)); n != 0 {
		t.Error("expected reader to be drained")
	}
}
