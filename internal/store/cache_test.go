// ABOUTME: Tests for the bounded query result cache
// ABOUTME: Covers hits, FIFO eviction, overwrite, and clearing

package store

import "testing"

func row(id string) []map[string]any {
	return []map[string]any{{"id": id}}
}

func TestQueryCache_HitAndMiss(t *testing.T) {
	c := newQueryCache(4)

	if _, ok := c.get("a"); ok {
		t.Error("hit on empty cache")
	}

	c.put("a", row("1"))
	got, ok := c.get("a")
	if !ok || got[0]["id"] != "1" {
		t.Errorf("get(a) = %v, %v", got, ok)
	}
}

func TestQueryCache_FIFOEviction(t *testing.T) {
	c := newQueryCache(2)

	c.put("a", row("1"))
	c.put("b", row("2"))
	c.put("c", row("3"))

	if _, ok := c.get("a"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.get("b"); !ok {
		t.Error("entry b evicted early")
	}
	if _, ok := c.get("c"); !ok {
		t.Error("entry c missing")
	}
}

func TestQueryCache_OverwriteKeepsPosition(t *testing.T) {
	c := newQueryCache(2)

	c.put("a", row("1"))
	c.put("b", row("2"))
	c.put("a", row("1b"))
	c.put("c", row("3"))

	// a was not re-inserted, so it is still oldest and gets evicted.
	if _, ok := c.get("a"); ok {
		t.Error("overwritten entry should still evict in original order")
	}
	got, ok := c.get("b")
	if !ok || got[0]["id"] != "2" {
		t.Errorf("get(b) = %v, %v", got, ok)
	}
}

func TestQueryCache_Clear(t *testing.T) {
	c := newQueryCache(4)
	c.put("a", row("1"))
	c.put("b", row("2"))

	c.clear()

	if _, ok := c.get("a"); ok {
		t.Error("entry a survived clear")
	}
	if _, ok := c.get("b"); ok {
		t.Error("entry b survived clear")
	}

	// Cache keeps working after a clear.
	c.put("c", row("3"))
	if _, ok := c.get("c"); !ok {
		t.Error("entry c missing after clear")
	}
}
