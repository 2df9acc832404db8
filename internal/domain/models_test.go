package domain

import (
	"testing"
	"time"
)

func TestStringList_Value(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		var l StringList
		v, err := l.Value()
		if err != nil {
			t.Fatalf("Value: %v", err)
		}
		if v != "[]" {
			t.Fatalf("expected [] for nil list, got %v", v)
		}
	})

	t.Run("values round as JSON", func(t *testing.T) {
		l := StringList{"price", "köln"}
		v, err := l.Value()
		if err != nil {
			t.Fatalf("Value: %v", err)
		}
		if v != `["price","köln"]` {
			t.Fatalf("unexpected encoding: %v", v)
		}
	})
}

func TestStringList_Scan(t *testing.T) {
	t.Run("string source", func(t *testing.T) {
		var l StringList
		if err := l.Scan(`["a","b"]`); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if len(l) != 2 || l[0] != "a" || l[1] != "b" {
			t.Fatalf("unexpected list: %v", l)
		}
	})

	t.Run("byte source", func(t *testing.T) {
		var l StringList
		if err := l.Scan([]byte(`["x"]`)); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if len(l) != 1 || l[0] != "x" {
			t.Fatalf("unexpected list: %v", l)
		}
	})

	t.Run("nil and empty sources clear the list", func(t *testing.T) {
		l := StringList{"stale"}
		if err := l.Scan(nil); err != nil {
			t.Fatalf("Scan nil: %v", err)
		}
		if l != nil {
			t.Fatalf("expected nil after nil scan, got %v", l)
		}
		l = StringList{"stale"}
		if err := l.Scan(""); err != nil {
			t.Fatalf("Scan empty: %v", err)
		}
		if l != nil {
			t.Fatalf("expected nil after empty scan, got %v", l)
		}
	})

	t.Run("unsupported source type errors", func(t *testing.T) {
		var l StringList
		if err := l.Scan(42); err == nil {
			t.Fatalf("expected error for int source")
		}
	})

	t.Run("invalid json errors", func(t *testing.T) {
		var l StringList
		if err := l.Scan("{not json"); err == nil {
			t.Fatalf("expected error for malformed payload")
		}
	})
}

func TestThreadsAccount_TokenExpired(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &ThreadsAccount{TokenExpiresAt: exp}

	if a.TokenExpired(exp.Add(-time.Second)) {
		t.Fatalf("token should be valid before expiry")
	}
	// Expiry instant counts as expired.
	if !a.TokenExpired(exp) {
		t.Fatalf("token should be expired exactly at expiry")
	}
	if !a.TokenExpired(exp.Add(time.Hour)) {
		t.Fatalf("token should be expired after expiry")
	}
}
