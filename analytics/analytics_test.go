package analytics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsFlushedOnStop(t *testing.T) {
	file := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, InitDataCollector(DataCollectorConfig{
		FileName:      file,
		CollectorType: LOG_FILE_DATA_COLLECTOR,
	}))

	for i := 0; i < 50; i++ {
		RecordNodeSuccess("wf1", "f1", "approve", i, map[string]any{"i": i})
	}
	RecordFlowStateChange("wf1", "f1", "COMPLETED")

	Stop()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// every record submitted before Stop must be on disk afterwards
	require.Len(t, lines, 51)
	assert.Contains(t, lines[50], "COMPLETED")
}

func TestStopWithoutInitIsNoop(t *testing.T) {
	Stop()
	RecordNodeSuccess("wf1", "f1", "approve", 1, nil)
}
