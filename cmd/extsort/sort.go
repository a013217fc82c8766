package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dutov-ivan/extsort/internal/config"
	"github.com/dutov-ivan/extsort/internal/engine"
	"github.com/dutov-ivan/extsort/internal/metrics"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

func init() {
	cfg := config.Default()
	var readBufferStr, writeBufferStr, memoryBudgetStr string

	cmd := &cobra.Command{
		Use:   "sort [FILE]",
		Short: "Externally sort a KEY-PAYLOAD line file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.InputPath = args[0]
			}

			readBuf, err := config.ParseMemoryBudget(readBufferStr)
			if err != nil {
				return err
			}
			writeBuf, err := config.ParseMemoryBudget(writeBufferStr)
			if err != nil {
				return err
			}
			memBudget, err := config.ParseMemoryBudget(memoryBudgetStr)
			if err != nil {
				return err
			}
			cfg.ReadBufferBytes = int(readBuf)
			cfg.WriteBufferBytes = int(writeBuf)
			cfg.Phase1MemoryBytes = memBudget

			log := xlog.New(cfg.LogLevel)

			var reg *metrics.Registry
			if cfg.MetricsAddr != "" {
				promReg := prometheus.NewRegistry()
				reg = metrics.NewRegistry(promReg)
				go func() {
					http.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
					log.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
					if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
						log.WithError(err).Warn("metrics server stopped")
					}
				}()
			}

			outcome, err := engine.Sort(cfg, log, reg)
			if err != nil {
				return err
			}
			cmd.Printf("sorted output: %s (%d passes)\n", outcome.Path, outcome.Passes)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.BucketSize, "bucket-size", config.DefaultBucketSize, "temp files per bucket")
	cmd.Flags().StringVar(&readBufferStr, "read-buffer", "64KiB", "read buffer size")
	cmd.Flags().StringVar(&writeBufferStr, "write-buffer", "1MiB", "write buffer size")
	cmd.Flags().StringVar(&memoryBudgetStr, "memory-budget", "480MiB", "phase 1 memory budget")
	cmd.Flags().StringVar((*string)(&cfg.Variant), "variant", string(config.VariantNatural),
		"run generation variant: natural, replacement-selection, parallel-replacement-selection")
	cmd.Flags().BoolVar(&cfg.UseMmap, "mmap", false, "read source files via mmap instead of buffered I/O")
	cmd.Flags().IntVar(&cfg.Parallelism, "parallelism", 0, "worker count for the parallel variant (0 = auto)")
	cmd.Flags().StringVar(&cfg.BucketAPrefix, "bucket-a-prefix", config.DefaultBucketAPrefix, "prefix for bucket A temp files")
	cmd.Flags().StringVar(&cfg.BucketBPrefix, "bucket-b-prefix", config.DefaultBucketBPrefix, "prefix for bucket B temp files")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address to serve /metrics on (empty disables it)")

	rootCmd.AddCommand(cmd)
}
