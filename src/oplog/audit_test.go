package oplog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditReaderCounts(t *testing.T) {
	log := strings.Join([]string{
		"Thread 1: Inserting value: 5",
		"Thread 2: Deleting value: 7",
		"Thread 1: Searching for value: 5",
		"Thread 2: Inserting value: 1",
	}, "\n") + "\n"

	report, err := AuditReader(strings.NewReader(log))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Lines)
	assert.Empty(t, report.Malformed)
	assert.Equal(t, []int{1, 2}, report.Workers())
	assert.Equal(t, 2, report.PerAction[ActionInsert])
	assert.Equal(t, 1, report.PerAction[ActionDelete])
	assert.Equal(t, 1, report.PerAction[ActionSearch])
	assert.NoError(t, report.Check(2, 2))
}

func TestAuditCheckFailures(t *testing.T) {
	tests := []struct {
		name       string
		log        string
		workers    int
		iterations int
		wantSub    string
	}{
		{
			name:       "missing line",
			log:        "Thread 1: Inserting value: 5\n",
			workers:    1,
			iterations: 2,
			wantSub:    "want 2",
		},
		{
			name:       "malformed line",
			log:        "Thread 1: Inserting value: 5\ngarbage\n",
			workers:    1,
			iterations: 2,
			wantSub:    "malformed",
		},
		{
			name:       "unexpected worker",
			log:        "Thread 1: Inserting value: 5\nThread 3: Inserting value: 5\n",
			workers:    2,
			iterations: 1,
			wantSub:    "unexpected worker",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report, err := AuditReader(strings.NewReader(tc.log))
			require.NoError(t, err)
			err = report.Check(tc.workers, tc.iterations)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSub)
		})
	}
}
