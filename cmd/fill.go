package cmd

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aglyzov/cptrie/cptrie"
)

// the context is checked once per this many keys
const checkEvery = 1024

// fill command flags
var (
	fillKind  string
	fillCount int
	fillSeed  int64
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a trie with fake keys, verify it and remove half of the keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		report, err := runFill(ctx, logger, fillKind, fillCount, fillSeed)
		if err != nil {
			logger.Error("Fill failed", zap.String("kind", fillKind), zap.Error(err))
			return err
		}

		logger.Info("Fill done",
			zap.String("kind", fillKind),
			zap.Int("inserted", report.Inserted),
			zap.Int("kept", report.Kept),
			zap.Int("memory", report.Memory),
			zap.Stringer("stats", report.Stats),
		)

		return nil
	},
}

func init() {
	fillCmd.Flags().StringVar(&fillKind, "kind", "words", "Key kind: words or ints")
	fillCmd.Flags().IntVar(&fillCount, "count", 100_000, "Number of keys to generate")
	fillCmd.Flags().Int64Var(&fillSeed, "seed", 1234567890, "Fake data seed")
}

type fillReport struct {
	Inserted int // distinct keys added
	Kept     int // keys left after removing every other one
	Memory   int // estimated bytes, 8 per value
	Stats    cptrie.Stats
}

func runFill(ctx context.Context, logger *zap.Logger, kind string, count int, seed int64) (fillReport, error) {
	if count < 0 {
		return fillReport{}, fmt.Errorf("negative key count %d", count)
	}

	switch kind {
	case "words":
		return fillWords(ctx, logger, count, seed)
	case "ints":
		return fillInts(ctx, logger, count, seed)
	}

	return fillReport{}, fmt.Errorf("unknown key kind %q", kind)
}

func fillWords(ctx context.Context, logger *zap.Logger, count int, seed int64) (fillReport, error) {
	var (
		faker = gofakeit.New(seed)
		st    = cptrie.NewStringTrie[int]()
		keys  = make([]string, 0, count)
	)

	for i := 0; i < count; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return fillReport{}, ctx.Err()
		}

		key := faker.HipsterSentence(3)
		if st.TryAdd(key, len(keys)) {
			keys = append(keys, key)
		}
	}

	logger.Debug("Keys generated", zap.Int("count", count), zap.Int("distinct", len(keys)))

	for i, key := range keys {
		val, err := st.Get(key)
		if err != nil {
			return fillReport{}, err
		}
		if val != i {
			return fillReport{}, fmt.Errorf("key %q: got value %d, want %d", key, val, i)
		}
	}

	for i := 0; i < len(keys); i += 2 {
		if !st.Remove(keys[i]) {
			return fillReport{}, fmt.Errorf("key %q: %w", keys[i], cptrie.ErrKeyNotFound)
		}
	}

	if exp := len(keys) / 2; st.Len() != exp {
		return fillReport{}, fmt.Errorf("%d keys left, want %d", st.Len(), exp)
	}

	return fillReport{
		Inserted: len(keys),
		Kept:     st.Len(),
		Memory:   st.CountMemoryUsage(8),
		Stats:    st.Stats(),
	}, nil
}

// fillInts draws numbers from a range a few times wider than count, so that
// neighbours share bit array leaves.
func fillInts(ctx context.Context, logger *zap.Logger, count int, seed int64) (fillReport, error) {
	var (
		faker = gofakeit.New(seed)
		it    = cptrie.NewIntTrie[int64]()
		keys  = make([]int64, 0, count)
	)

	for i := 0; i < count; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return fillReport{}, ctx.Err()
		}

		key := int64(faker.Number(-2*count, 2*count))
		if it.TryAdd(key, -key) {
			keys = append(keys, key)
		}
	}

	logger.Debug("Keys generated", zap.Int("count", count), zap.Int("distinct", len(keys)))

	for _, key := range keys {
		val, err := it.Get(key)
		if err != nil {
			return fillReport{}, err
		}
		if val != -key {
			return fillReport{}, fmt.Errorf("key %d: got value %d, want %d", key, val, -key)
		}
	}

	for i := 0; i < len(keys); i += 2 {
		if !it.Remove(keys[i]) {
			return fillReport{}, fmt.Errorf("key %d: %w", keys[i], cptrie.ErrKeyNotFound)
		}
	}

	if exp := len(keys) / 2; it.Len() != exp {
		return fillReport{}, fmt.Errorf("%d keys left, want %d", it.Len(), exp)
	}

	return fillReport{
		Inserted: len(keys),
		Kept:     it.Len(),
		Memory:   it.CountMemoryUsage(8),
		Stats:    it.Stats(),
	}, nil
}
