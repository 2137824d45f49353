package monitoring

import (
	"testing"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}

	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordOrder(t *testing.T) {
	m := NewMonitor()

	m.RecordOrder(7, 4)
	m.RecordOrder(8, 3)

	metrics := m.GetMetrics()

	if got := metrics["orders_created"]; got != 2 {
		t.Errorf("Expected 'orders_created' to be 2, but got %v", got)
	}
	if got := metrics["last_order_number"]; got != 8 {
		t.Errorf("Expected 'last_order_number' to be 8, but got %v", got)
	}
	if got := metrics["last_order_ingredients"]; got != 3 {
		t.Errorf("Expected 'last_order_ingredients' to be 3, but got %v", got)
	}
	if _, exists := metrics["last_order_at"]; !exists {
		t.Errorf("Expected 'last_order_at' to be present in metrics, but it was not")
	}
}

func TestMonitor_Increment(t *testing.T) {
	m := NewMonitor()

	if got := m.Increment("feed_subscribers", 1); got != 1 {
		t.Errorf("Increment() = %d, want 1", got)
	}
	if got := m.Increment("feed_subscribers", -1); got != 0 {
		t.Errorf("Increment() = %d, want 0", got)
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()

	_, exists := metrics["test_metric"]
	if exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}

	// Uptime is added on every GetMetrics call
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}
