// File: cmd/run.go
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codesum/pkg/aggregate"
	"codesum/pkg/logging"
	"codesum/pkg/output"
	"codesum/pkg/telemetry"
	"codesum/pkg/version"
)

const appName = "codesum"

// runAggregate builds the logger and telemetry for one invocation, runs the
// selected aggregator over root and delivers the rendered result.
func runAggregate(cmd *cobra.Command, root string, s settings) error {
	if !slices.Contains(output.Formats(), s.Format) {
		return fmt.Errorf("%w: %q", output.ErrUnknownFormat, s.Format)
	}

	logger, err := logging.New(logging.Options{
		Debug:      s.Debug,
		Level:      s.LogLevel,
		AppName:    appName,
		AppVersion: version.Version,
	})
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	ctx := cmd.Context()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    appName,
		ServiceVersion: version.Version,
		Traces:         s.Trace,
		Metrics:        s.Metrics,
		Writer:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if shutdownErr := shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("Telemetry shutdown failed", zap.Error(shutdownErr))
		}
	}()

	agg, err := aggregate.New(s.Strategy, s.aggregateOptions(), logger)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := agg.Aggregate(ctx, root)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var buf bytes.Buffer
	if err := output.Render(&buf, res, s.Format); err != nil {
		return err
	}

	if s.Output != "" {
		if err := output.WriteFile(s.Output, buf.Bytes(), logger); err != nil {
			return err
		}
	} else if !s.Clipboard {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if s.Clipboard {
		if err := output.ToClipboard(buf.String()); err != nil {
			return err
		}
		logger.Info("Copied output to clipboard", zap.Int("bytes", buf.Len()))
	}

	if s.Stats {
		output.Stats(cmd.ErrOrStderr(), res, elapsed)
	}
	return nil
}
