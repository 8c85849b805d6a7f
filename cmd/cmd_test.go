package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunFill(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Kind  string
		Count int
	}{
		{"words", 0},
		{"words", 3000},
		{"ints", 1},
		{"ints", 5000},
	} {
		var (
			tcase = tcase
			name  = tcase.Kind
		)

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			report, err := runFill(context.Background(), zap.NewNop(), tcase.Kind, tcase.Count, 1234567890)

			require.NoError(t, err)
			assert.LessOrEqual(t, report.Inserted, tcase.Count)
			assert.Equal(t, report.Inserted/2, report.Kept)
			assert.Positive(t, report.Memory)
			assert.LessOrEqual(t, report.Stats.StoredVals, report.Kept)
		})
	}
}

func TestRunFill_Errors(t *testing.T) {
	t.Parallel()

	_, err := runFill(context.Background(), zap.NewNop(), "floats", 10, 1)
	assert.EqualError(t, err, `unknown key kind "floats"`)

	_, err = runFill(context.Background(), zap.NewNop(), "ints", -1, 1)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runFill(ctx, zap.NewNop(), "words", 10, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLoad(t *testing.T) {
	t.Parallel()

	var (
		dir   = t.TempDir()
		fileA = filepath.Join(dir, "a.txt")
		fileB = filepath.Join(dir, "b.txt")
	)

	require.NoError(t, os.WriteFile(fileA, []byte("pear\napple\nplum\n"), 0o600))
	require.NoError(t, os.WriteFile(fileB, []byte("apple\napricot\n\n"), 0o600))

	for _, tcase := range []*struct {
		From       string
		Limit      int
		ExpOut     string
		ExpPrinted int
	}{
		{"", 0, "6\t\n2\tapple\n5\tapricot\n1\tpear\n3\tplum\n", 5},
		{"b", 0, "1\tpear\n3\tplum\n", 2},
		{"apples", 1, "5\tapricot\n", 1},
		{"z", 0, "", 0},
	} {
		var (
			tcase = tcase
			name  = tcase.From
		)

		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer

			report, err := runLoad(context.Background(), zap.NewNop(), &out, []string{fileA, fileB}, tcase.From, tcase.Limit)

			require.NoError(t, err)
			assert.Equal(t, 6, report.Lines)
			assert.Equal(t, 5, report.Keys)
			assert.Equal(t, tcase.ExpPrinted, report.Printed)
			assert.Equal(t, tcase.ExpOut, out.String())
		})
	}

	_, err := runLoad(context.Background(), zap.NewNop(), &bytes.Buffer{}, []string{filepath.Join(dir, "missing")}, "", 0)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	for _, verbose := range []bool{false, true} {
		logger, err := newLogger(verbose)

		require.NoError(t, err)
		assert.Equal(t, verbose, logger.Core().Enabled(zap.DebugLevel))
	}
}
