package closer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var order []string
	for _, name := range []string{"db", "redis", "http"} {
		c.Add(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"http", "redis", "db"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("got order %v, want %v", order, want)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.AddSimple("pebble", func() error { return errors.New("boom") })
	c.AddSimple("redis", func() error { return nil })

	err := c.Close(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pebble: boom") {
		t.Fatalf("expected named error, got %v", err)
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(50 * time.Millisecond)

	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("expected interrupted error, got %v", err)
	}
	if !strings.Contains(err.Error(), "[FORCED] slow") {
		t.Fatalf("expected forced close of slow resource, got %v", err)
	}
}
