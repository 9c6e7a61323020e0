package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tern/internal/trace"
)

// setupTracing builds a tracer from the persistent flags. The returned
// cleanup flushes and closes the trace sink.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	root := cmd.Root()

	out, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, err
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, err
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}

	if out == "" || level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}

	f, err := os.Create(out)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace file: %w", err)
	}
	tracer := trace.NewStreamTracer(f, level)
	cleanup := func() {
		// Close flushes and closes the underlying file.
		tracer.Close()
	}
	return tracer, cleanup, nil
}
