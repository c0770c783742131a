package amqp

import "testing"

func TestEventConstructors(t *testing.T) {
	rec := NewTransactionRecordedMessage("t1", "2024-01-03")
	if rec.Type != EventTransactionRecorded || rec.TransactionID != "t1" || rec.Date != "2024-01-03" {
		t.Errorf("recorded message = %+v", rec)
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	stale := NewAggregateStaleMessage("2024-01-03", "apply failed")
	if stale.Type != EventAggregateStale || stale.Reason != "apply failed" {
		t.Errorf("stale message = %+v", stale)
	}
}

func TestEventMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := EventMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("malformed payload should fail")
	}
}
