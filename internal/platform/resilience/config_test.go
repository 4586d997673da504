package resilience

import (
	"testing"
	"time"
)

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: false})

	if got.Enabled {
		t.Error("Enabled flipped by normalization")
	}
	if got.FailureThreshold != defaultFailureThreshold {
		t.Errorf("FailureThreshold = %d, want %d", got.FailureThreshold, defaultFailureThreshold)
	}
	if got.OpenTimeout != defaultOpenTimeout {
		t.Errorf("OpenTimeout = %s, want %s", got.OpenTimeout, defaultOpenTimeout)
	}
	if got.HalfOpenMaxReq != defaultHalfOpenMaxReq {
		t.Errorf("HalfOpenMaxReq = %d, want %d", got.HalfOpenMaxReq, defaultHalfOpenMaxReq)
	}
}

func TestNormalizeCircuitBreakerConfigKeepsExplicitValues(t *testing.T) {
	in := CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 9,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   4,
	}
	if got := NormalizeCircuitBreakerConfig(in); got != in {
		t.Errorf("NormalizeCircuitBreakerConfig(%+v) = %+v", in, got)
	}
}
