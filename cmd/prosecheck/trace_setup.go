package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"prosecheck/internal/trace"
)

type traceFlags struct {
	output string
	level  string
	mode   string
	format string
	ring   int
}

func readTraceFlags(flags *pflag.FlagSet) (traceFlags, error) {
	var tf traceFlags
	var err error
	str := func(name string, dst *string) {
		if err == nil {
			*dst, err = flags.GetString(name)
		}
	}
	str("trace", &tf.output)
	str("trace-level", &tf.level)
	str("trace-mode", &tf.mode)
	str("trace-format", &tf.format)
	if err == nil {
		tf.ring, err = flags.GetInt("trace-ring-size")
	}
	if err != nil {
		return tf, fmt.Errorf("trace flags: %w", err)
	}
	return tf, nil
}

// config turns the flags into a tracer config. --trace without
// --trace-level means phase events.
func (tf traceFlags) config() (trace.Config, error) {
	level, err := trace.ParseLevel(tf.level)
	if err != nil {
		return trace.Config{}, err
	}
	if level == trace.LevelOff && tf.output != "" {
		level = trace.LevelPhase
	}
	cfg := trace.Config{Level: level, OutputPath: tf.output, RingSize: tf.ring}
	if level == trace.LevelOff {
		return cfg, nil
	}
	if cfg.Mode, err = trace.ParseMode(tf.mode); err != nil {
		return cfg, err
	}
	if cfg.Format, err = trace.ParseFormat(tf.format); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupTracing installs the tracer selected by the persistent flags into
// the command context and returns the function that shuts it down.
func setupTracing(cmd *cobra.Command) (func(), error) {
	tf, err := readTraceFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	cfg, err := tf.config()
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, err
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	if tracer == trace.Nop {
		return func() {}, nil
	}

	stderr := cmd.ErrOrStderr()
	return func() {
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := ring.Dump(stderr, cfg.Format); err != nil {
				fmt.Fprintf(stderr, "trace: dump: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(stderr, "trace: flush: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close: %v\n", err)
		}
	}, nil
}
