package enrich

import (
	"context"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

const (
	chunkSizeFlag    = "enrich-chunk-size"
	chunkDelayMsFlag = "enrich-chunk-delay-ms"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.IntFlag{
			Name:   chunkSizeFlag,
			Usage:  "max concurrent enrichment calls per chunk",
			EnvVar: "ENRICH_CHUNK_SIZE",
			Value:  6,
		},
		cli.IntFlag{
			Name:   chunkDelayMsFlag,
			Usage:  "pause between enrichment chunks in milliseconds",
			EnvVar: "ENRICH_CHUNK_DELAY_MS",
			Value:  1000,
		},
	)
}

func chunkOptions(c *cli.Context) (int, time.Duration) {
	return c.Int(chunkSizeFlag), time.Duration(c.Int(chunkDelayMsFlag)) * time.Millisecond
}

// inChunks runs fn over items in fixed-size chunks: full fan-out
// inside a chunk, a fixed pause between chunks. That bounds peak
// outbound concurrency to size and paces the overall call rate under
// the external services' throttling thresholds.
//
// fn is expected to absorb per-item failures itself (mark the item,
// return nil); a non-nil return is a programming error and surfaces
// after the chunk drains, without cancelling siblings.
func inChunks[T any](ctx context.Context, items []T, size int, delay time.Duration, fn func(ctx context.Context, item T) error) error {
	if size < 1 {
		size = 1
	}
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		var g errgroup.Group
		for _, item := range items[start:end] {
			g.Go(func() error {
				return fn(ctx, item)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if end < len(items) && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil
}
