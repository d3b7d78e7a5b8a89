package clock

import (
	"testing"
	"time"
)

func TestSystem_ReturnsUTC(t *testing.T) {
	now := System{}.Now()
	if now.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", now.Location())
	}
}

func TestFixed_AdvanceAndSet(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixed(base)

	if !c.Now().Equal(base) {
		t.Fatalf("Now = %v, want %v", c.Now(), base)
	}

	c.Advance(48 * time.Hour)
	if got, want := c.Now(), base.Add(48*time.Hour); !got.Equal(want) {
		t.Fatalf("after Advance: Now = %v, want %v", got, want)
	}

	pin := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(pin)
	if !c.Now().Equal(pin) {
		t.Fatalf("after Set: Now = %v, want %v", c.Now(), pin)
	}
}
