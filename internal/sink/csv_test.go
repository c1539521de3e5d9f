package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hang_reps.csv")
	dest := NewCSV(path, Row{"timestamp", "rep_number", "reps_planned", "weight_kg"})
	ctx := context.Background()

	require.NoError(t, dest.Append(ctx, Row{"2026-03-01T10:00:00", "1", "5", "2.5"}))
	require.NoError(t, dest.Append(ctx, Row{"2026-03-01T10:02:12", "2", "5", "2.5"}))

	records := readRecords(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"timestamp", "rep_number", "reps_planned", "weight_kg"}, records[0])
	assert.Equal(t, "1", records[1][1])
	assert.Equal(t, "2", records[2][1])
}

func TestCSVSkipsHeaderForExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hang_sessions.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,reps,weight_kg\nold,5,0\n"), 0o644))

	dest := NewCSV(path, Row{"timestamp", "reps", "weight_kg"})
	require.NoError(t, dest.Append(context.Background(), Row{"new", "3", "1.5"}))

	records := readRecords(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, "old", records[1][0], "prior rows are untouched")
	assert.Equal(t, "new", records[2][0])
}

func TestCSVPreservesAppendOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "four_by_four_sets.csv")
	dest := NewCSV(path, Row{"timestamp", "value"})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, dest.Append(ctx, Row{"t", strconv.Itoa(i)}))
	}

	records := readRecords(t, path)
	require.Len(t, records, 21)
	for i := 0; i < 20; i++ {
		assert.Equal(t, strconv.Itoa(i), records[i+1][1])
	}
}

func TestCSVCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hang_reps.csv")
	dest := NewCSV(path, Row{"timestamp"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := dest.Append(ctx, Row{"t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
