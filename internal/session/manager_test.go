package session

import (
	"sync"
	"testing"
)

func TestManagerReusesSession(t *testing.T) {
	m := NewManager()

	m.Do("EMP001", "Somchai", func(s *Session) error {
		return s.SetOrder("B01")
	})

	var got string
	m.Do("EMP001", "Somchai", func(s *Session) error {
		got = s.OrderID
		return nil
	})
	if got != "B01" {
		t.Errorf("expected session state to persist across calls, got order %q", got)
	}
}

func TestManagerIsolatesUsers(t *testing.T) {
	m := NewManager()

	m.Do("EMP001", "Somchai", func(s *Session) error { return s.SetOrder("B01") })
	m.Do("EMP002", "Malee", func(s *Session) error {
		if s.OrderID != "" {
			t.Errorf("second picker sees first picker's order %q", s.OrderID)
		}
		return nil
	})
}

func TestManagerDrop(t *testing.T) {
	m := NewManager()

	m.Do("EMP001", "Somchai", func(s *Session) error { return s.SetOrder("B01") })
	m.Drop("EMP001")

	m.Do("EMP001", "Somchai", func(s *Session) error {
		if s.OrderID != "" {
			t.Errorf("expected fresh session after drop, got order %q", s.OrderID)
		}
		return nil
	})
}

func TestManagerSerializesTransitions(t *testing.T) {
	m := NewManager()
	m.Do("EMP001", "Somchai", func(s *Session) error { return s.SetOrder("B01") })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Do("EMP001", "Somchai", func(s *Session) error {
				if err := s.SetItem(testProduct); err != nil {
					return err
				}
				if err := s.ConfirmLocation("A1"); err != nil {
					return err
				}
				_, err := s.AddToCart()
				return err
			})
		}()
	}
	wg.Wait()

	m.Do("EMP001", "Somchai", func(s *Session) error {
		if len(s.Cart) != 20 {
			t.Errorf("expected 20 cart lines, got %d", len(s.Cart))
		}
		return nil
	})
}
