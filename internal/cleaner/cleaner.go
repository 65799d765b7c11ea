// Package cleaner removes node_modules directories in batches and records
// every outcome in a restore log.
package cleaner

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/modkill/internal/fsutil"
	"github.com/blackwell-systems/modkill/internal/restorelog"
	"github.com/blackwell-systems/modkill/internal/trash"
)

// Cleaner deletes directories and writes restore logs.
type Cleaner struct {
	logger  zerolog.Logger
	sizer   *fsutil.Sizer
	remover Remover
	now     func() time.Time
}

// New creates a Cleaner that uses the platform trash and os.RemoveAll.
func New(logger zerolog.Logger) *Cleaner {
	return NewWithRemover(logger, osRemover{})
}

// NewWithRemover creates a Cleaner with a custom Remover.
func NewWithRemover(logger zerolog.Logger, remover Remover) *Cleaner {
	return &Cleaner{
		logger:  logger,
		sizer:   fsutil.NewSizer(0),
		remover: remover,
		now:     time.Now,
	}
}

type osRemover struct{}

func (osRemover) Trash(path string) error     { return trash.Move(path) }
func (osRemover) RemoveAll(path string) error { return os.RemoveAll(path) }

// outcome is the settled state of one path.
type outcome struct {
	path    string
	deleted bool
	size    int64
	reason  string
	code    string
}

// Delete removes each path and returns the combined result. A failure on one
// path never stops the batch. The restore log is written once every path has
// settled; failing to write it is logged at debug level and does not change
// the result.
func (c *Cleaner) Delete(paths []string, opts Options) DeleteResult {
	outcomes := make([]outcome, len(paths))

	var mu sync.Mutex
	done := 0
	settle := func(i int, o outcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes[i] = o
		done++
		if opts.Observer != nil {
			opts.Observer.OnSettled(o.path, o.deleted, done, len(paths))
		}
	}

	switch {
	case opts.DryRun:
		for i, p := range paths {
			settle(i, outcome{path: p, reason: ReasonDryRun})
		}
	case opts.Concurrency <= 1:
		for i, p := range paths {
			settle(i, c.deleteOne(p, opts.Permanent))
		}
	default:
		var g errgroup.Group
		g.SetLimit(opts.Concurrency)
		for i, p := range paths {
			g.Go(func() error {
				settle(i, c.deleteOne(p, opts.Permanent))
				return nil
			})
		}
		g.Wait()
	}

	result := DeleteResult{
		Success:        true,
		Deleted:        []string{},
		Skipped:        []SkippedPath{},
		RestoreLogPath: opts.RestoreLogPath,
	}
	if result.RestoreLogPath == "" {
		result.RestoreLogPath = restorelog.DefaultPath(c.now())
	}

	entries := make([]restorelog.Entry, 0, len(outcomes))
	for _, o := range outcomes {
		if o.deleted {
			result.Deleted = append(result.Deleted, o.path)
			result.FreedBytes += o.size
			entries = append(entries, restorelog.Deleted(o.path))
			continue
		}
		result.Skipped = append(result.Skipped, SkippedPath{Path: o.path, Reason: o.reason, ErrorCode: o.code})
		entries = append(entries, restorelog.Skipped(o.path, o.reason))
	}

	if err := restorelog.Write(result.RestoreLogPath, entries); err != nil {
		c.logger.Debug().Err(err).Str("path", result.RestoreLogPath).Msg("could not write restore log")
	}

	return result
}

func (c *Cleaner) deleteOne(path string, permanent bool) outcome {
	// os.RemoveAll succeeds on a missing path, so check first.
	if _, err := os.Lstat(path); err != nil {
		return c.failed(path, err)
	}

	size := c.sizer.Size(path)

	var err error
	if permanent {
		err = c.remover.RemoveAll(path)
	} else {
		err = c.remover.Trash(path)
	}
	if err != nil {
		return c.failed(path, err)
	}

	c.logger.Debug().Str("path", path).Int64("bytes", size).Bool("permanent", permanent).Msg("removed")
	return outcome{path: path, deleted: true, size: size}
}

func (c *Cleaner) failed(path string, err error) outcome {
	o := outcome{path: path, reason: classify(err), code: errorCode(err)}
	c.logger.Debug().Err(err).Str("path", path).Str("reason", o.reason).Msg("skipped")
	return o
}
