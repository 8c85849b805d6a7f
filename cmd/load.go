package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aglyzov/cptrie/cptrie"
)

// load command flags
var (
	loadFrom  string
	loadLimit int
)

var loadCmd = &cobra.Command{
	Use:   "load [files...]",
	Short: "Load lines of files into a trie and print them in order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		report, err := runLoad(ctx, logger, cmd.OutOrStdout(), args, loadFrom, loadLimit)
		if err != nil {
			logger.Error("Load failed", zap.Strings("files", args), zap.Error(err))
			return err
		}

		logger.Info("Load done",
			zap.Int("lines", report.Lines),
			zap.Int("keys", report.Keys),
			zap.Int("printed", report.Printed),
			zap.Int("memory", report.Memory),
		)

		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFrom, "from", "", "Print keys starting at the first one >= this")
	loadCmd.Flags().IntVarP(&loadLimit, "limit", "n", 0, "Print at most this many keys (0 - all)")
}

type loadReport struct {
	Lines   int
	Keys    int // distinct lines
	Printed int
	Memory  int
}

// runLoad maps every distinct line of the files to the number of its first
// occurrence and writes the lines >= from to w in ascending order.
func runLoad(ctx context.Context, logger *zap.Logger, w io.Writer, paths []string, from string, limit int) (loadReport, error) {
	var (
		st     = cptrie.NewStringTrie[int]()
		report loadReport
	)

	for _, path := range paths {
		lines, err := loadFile(ctx, st, path, report.Lines)
		if err != nil {
			return report, err
		}

		logger.Debug("File loaded", zap.String("path", path), zap.Int("lines", lines))

		report.Lines += lines
	}

	report.Keys = st.Len()
	report.Memory = st.CountMemoryUsage(8)

	for e, _ := st.FindAtLeast(from); e.Valid(); e.MoveNext() {
		if limit > 0 && report.Printed == limit {
			break
		}

		if _, err := fmt.Fprintf(w, "%d\t%s\n", e.Value(), e.Key()); err != nil {
			return report, err
		}

		report.Printed++
	}

	return report, nil
}

func loadFile(ctx context.Context, st *cptrie.StringTrie[int], path string, lineNo int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var (
		scanner = bufio.NewScanner(f)
		lines   int
	)

	for scanner.Scan() {
		if lines%checkEvery == 0 && ctx.Err() != nil {
			return lines, ctx.Err()
		}

		lines++
		st.TryAdd(scanner.Text(), lineNo+lines)
	}

	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("%s: %w", path, err)
	}

	return lines, nil
}
