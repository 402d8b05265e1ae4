package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/pkg"
)

// Check parses each template strictly and reports every failure.
type Check struct {
	Quiet bool `help:"Only report failures." short:"q"`

	Sources []string `arg:"" help:"Template source file(s) or '-' for stdin." name:"sources" type:"existingfile"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	var (
		failed []error
		seen   = make(map[fileKey]struct{})
		w      = outputFrom(ctx)
		stdin  bool
	)

	for _, src := range c.Sources {
		var r io.ReadCloser

		if src == stdinSource {
			if stdin {
				continue
			}

			stdin = true
			r = io.NopCloser(os.Stdin)
		} else {
			file, _, err := openUniqueFile(src, seen)
			if err != nil {
				failed = append(failed, c.report(ctx, w, src,
					ErrOpenSource.Wrap(err)))

				continue
			}

			if file == nil {
				log.TraceContext(ctx, "skipping duplicate source",
					slog.String("source", src))

				continue
			}

			r = file
		}

		err := c.check(ctx, r)
		if err != nil {
			failed = append(failed, c.report(ctx, w, src, err))

			continue
		}

		if !c.Quiet {
			fmt.Fprintf(w, "%s: ok\n", src)
		}
	}

	if len(failed) > 0 {
		return pkg.ErrCheck.Wrap(failed...)
	}

	return nil
}

func (c *Check) check(ctx context.Context, r io.ReadCloser) error {
	defer r.Close()

	_, err := lang.ParseReader(ctx, r, parseOptionsFrom(ctx, lang.WithStrict(true))...)

	return err
}

// report writes the failure of src and returns it annotated with src.
// Failures go to the kong error stream when running under kong, else to w.
func (c *Check) report(
	ctx context.Context,
	w io.Writer,
	src string,
	err error,
) error {
	log.DebugContext(ctx, "check failed",
		slog.String("source", src),
		slog.Any("error", err))

	if ktx := kongContextFrom(ctx); ktx != nil {
		ktx.Errorf("%s: %v", src, err)
	} else {
		fmt.Fprintf(w, "%s: %v\n", src, err)
	}

	return fmt.Errorf("%s: %w", src, err)
}
