// Command supplier-ingest builds the supplier directory bloom filter from
// gzipped directory export files. The checkout server loads the resulting
// filter to vet raw supplier identifiers before trusting them.
//
// Each export file is a gzip-compressed CSV whose first column is the
// supplier identifier. Files are streamed concurrently into per-file
// filters, merged, and written out as a single serialized filter.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

const (
	filterCapacity = 10_000_000
	filterFPR      = 0.001
	progressEvery  = 1_000_000
	maxIDLen       = 64
)

func main() {
	var output string
	flag.StringVar(&output, "output", "suppliers.bloom", "path to write the serialized filter")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one gzipped export file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, files, output); err != nil {
		slog.Error("supplier ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("supplier ingest completed successfully", slog.String("output", output))
}

func run(ctx context.Context, files []string, output string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("building supplier filters", slog.Int("files", len(files)))

	filters := make([]*bloom.BloomFilter, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Merge per-file filters into one.
	merged := filters[0]
	for _, f := range filters[1:] {
		if err := merged.Merge(f); err != nil {
			return errors.Wrap(err, "merge filters")
		}
	}

	out, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "create %s", output)
	}
	defer func() { _ = out.Close() }()

	if _, err := merged.WriteTo(out); err != nil {
		return errors.Wrapf(err, "write filter to %s", output)
	}

	return nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(filterCapacity, filterFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(line string) {
			id := supplierID(line)
			if id == "" {
				return
			}
			filter.AddString(id)
			count++
			if count%progressEvery == 0 {
				slog.Info("ingest progress",
					slog.Int("file", idx+1),
					slog.Uint64("suppliers", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("file complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_suppliers", count),
		)

		filters[idx] = filter
		return nil
	}
}

// supplierID extracts the identifier from one CSV line, skipping headers and
// malformed rows.
func supplierID(line string) string {
	id := line
	if i := strings.IndexByte(line, ','); i >= 0 {
		id = line[:i]
	}
	id = strings.TrimSpace(id)
	if id == "" || id == "supplier_id" || len(id) > maxIDLen {
		return ""
	}
	return id
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
