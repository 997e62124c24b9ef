package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordMigration("continuous", "SUCCESS", 42*time.Second)
	RecordMigration("adhoc", "FAILED", 3*time.Second)
	RecordMirrorExit(0)
	RecordMirrorExit(16)
	RecordHTTPRequest("12032025-101500", "GET", "/records", 200, 12*time.Millisecond)
}
