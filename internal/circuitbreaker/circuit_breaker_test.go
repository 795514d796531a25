package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		Name:             "test",
		MaxFailures:      3,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	failing := errors.New("backend down")
	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return failing }); !errors.Is(err, failing) {
			t.Fatalf("Call %d: expected backend error, got %v", i, err)
		}
	}

	if cb.GetState() != StateOpen {
		t.Fatalf("Expected open state after 3 failures, got %s", cb.GetState())
	}

	err := cb.Execute(func() error {
		t.Error("fn must not run while the circuit is open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		Name:             "test",
		MaxFailures:      3,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	failing := errors.New("backend down")
	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return failing })
	}
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	// Two more failures do not reach the threshold again.
	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return failing })
	}

	if cb.GetState() != StateClosed {
		t.Errorf("Expected closed state, got %s", cb.GetState())
	}
}

func TestCircuitHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		Name:             "test",
		MaxFailures:      1,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	_ = cb.Execute(func() error { return errors.New("backend down") })
	if cb.GetState() != StateOpen {
		t.Fatalf("Expected open state, got %s", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)

	// Two successful probes close the circuit.
	for i := 0; i < 2; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("Probe %d: expected success, got %v", i, err)
		}
	}
	if cb.GetState() != StateClosed {
		t.Errorf("Expected closed state after successful probes, got %s", cb.GetState())
	}
}

func TestCircuitHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		Name:             "test",
		MaxFailures:      1,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	_ = cb.Execute(func() error { return errors.New("backend down") })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Execute(func() error { return errors.New("still down") })
	if cb.GetState() != StateOpen {
		t.Errorf("Expected reopened circuit, got %s", cb.GetState())
	}
}

func TestCircuitReset(t *testing.T) {
	cb := NewCircuitBreaker(&Config{
		Name:             "test",
		MaxFailures:      1,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	_ = cb.Execute(func() error { return errors.New("backend down") })
	cb.Reset()

	if cb.GetState() != StateClosed {
		t.Errorf("Expected closed state after reset, got %s", cb.GetState())
	}
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Errorf("Expected call to pass after reset, got %v", err)
	}
}
