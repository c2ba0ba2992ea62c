// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu   sync.Mutex
	seen []Notification
}

func (s *recordingSink) Send(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, n)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func TestCenterRecent(t *testing.T) {
	c := NewCenter(10)
	c.Notify("info", "first")
	c.Notify("error", "second")
	c.Notify("warning", "third")

	recent := c.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("got %d notifications, want 2", len(recent))
	}
	// Newest first.
	if recent[0].Message != "third" || recent[1].Message != "second" {
		t.Errorf("recent = %q, %q", recent[0].Message, recent[1].Message)
	}
	if recent[0].Level != LevelWarning {
		t.Errorf("level = %q, want warning", recent[0].Level)
	}
	if recent[0].At.IsZero() {
		t.Error("notification timestamp not set")
	}
}

func TestCenterBounded(t *testing.T) {
	c := NewCenter(3)
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		c.Notify("info", msg)
	}

	all := c.Recent(0)
	if len(all) != 3 {
		t.Fatalf("got %d notifications, want 3 (oldest dropped)", len(all))
	}
	if all[0].Message != "e" || all[2].Message != "c" {
		t.Errorf("feed = %q..%q, want e..c", all[0].Message, all[2].Message)
	}
}

func TestCenterFansOutToSinks(t *testing.T) {
	sink := &recordingSink{}
	c := NewCenter(10, sink)

	c.Notify("error", "boom")

	deadline := time.Now().Add(time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.count() != 1 {
		t.Fatalf("sink received %d notifications, want 1", sink.count())
	}
}

func TestCenterConcurrentNotify(t *testing.T) {
	c := NewCenter(50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Notify("info", "concurrent")
		}()
	}
	wg.Wait()

	if got := len(c.Recent(0)); got != 20 {
		t.Errorf("got %d notifications, want 20", got)
	}
}
