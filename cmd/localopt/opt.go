package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"localopt/internal/driver"
	"localopt/internal/ir"
	"localopt/internal/localopt"
	"localopt/internal/observ"
)

var optCmd = &cobra.Command{
	Use:   "opt [flags] <file.ir|directory>...",
	Short: "Run the local optimizer over IR files",
	Long: `Parse each IR file, apply the enabled rewrite rules once over every
instruction and print the optimized IR. Directories expand to the *.ir files
they contain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpt,
}

func init() {
	optCmd.Flags().String("rules", "", "comma-separated rules to enable (identity|shift|approx|sdiv|cancel|all|none)")
	optCmd.Flags().Int64("max-correction", -1, "bound on the approx correction term (0 = unbounded, -1 = from config)")
	optCmd.Flags().Bool("stats", false, "print per-file rewrite counts")
	optCmd.Flags().Bool("no-cache", false, "bypass the on-disk result cache")
	optCmd.Flags().Int("jobs", -1, "max files optimized in parallel (0 = GOMAXPROCS, -1 = from config)")
	optCmd.Flags().StringP("output", "o", "", "write the optimized IR to file (single input only)")
	optCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runOpt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := optOptions(cmd, cfg.Options(), cfg.Driver.Jobs)
	if err != nil {
		return err
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if cfg.Cache.Enabled && !noCache {
		// A cache that cannot be opened only costs speed.
		if cache, cacheErr := openCache(cfg); cacheErr == nil {
			opts.Cache = cache
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", cacheErr)
		}
	}

	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	files, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	if output != "" && len(files) != 1 {
		return fmt.Errorf("-o needs exactly one input file, got %d", len(files))
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	var results []*driver.FileResult
	if shouldUseTUI(mode, len(files)) {
		title := fmt.Sprintf("optimizing %d file(s)", len(files))
		results, err = runOptimizeWithUI(cmd.Context(), title, files, opts)
	} else {
		results, err = driver.OptimizeFiles(cmd.Context(), files, opts)
	}
	stopProfiling()

	if writeErr := writeModules(cmd.OutOrStdout(), output, results); writeErr != nil {
		return writeErr
	}
	if showStats {
		fmt.Fprint(cmd.ErrOrStderr(), renderStats(results))
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	return err
}

// optOptions merges flags over the configured pass options.
func optOptions(cmd *cobra.Command, pass localopt.Options, jobs int) (driver.Options, error) {
	rules, err := cmd.Flags().GetString("rules")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get rules flag: %w", err)
	}
	if cmd.Flags().Changed("rules") {
		if pass.Rules, err = localopt.ParseRules(rules); err != nil {
			return driver.Options{}, err
		}
	}
	maxCorr, err := cmd.Flags().GetInt64("max-correction")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-correction flag: %w", err)
	}
	if maxCorr != -1 {
		if pass.MaxCorrection, err = safecast.Conv[uint64](maxCorr); err != nil {
			return driver.Options{}, fmt.Errorf("invalid --max-correction %d: %w", maxCorr, err)
		}
	}
	jobsFlag, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	switch {
	case jobsFlag >= 0:
		jobs = jobsFlag
	case jobsFlag != -1:
		return driver.Options{}, fmt.Errorf("invalid --jobs %d", jobsFlag)
	}
	return driver.Options{Pass: pass, Jobs: jobs}, nil
}

// writeModules prints every optimized module; failed files are skipped.
func writeModules(stdout io.Writer, output string, results []*driver.FileResult) error {
	if output != "" {
		if len(results) != 1 || results[0] == nil {
			return nil
		}
		var buf bytes.Buffer
		if err := ir.Dump(&buf, results[0].Module); err != nil {
			return err
		}
		if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		return nil
	}
	multi := len(results) > 1
	for _, res := range results {
		if res == nil {
			continue
		}
		if multi {
			if _, err := fmt.Fprintf(stdout, "; %s\n", res.Path); err != nil {
				return err
			}
		}
		if err := ir.Dump(stdout, res.Module); err != nil {
			return err
		}
	}
	return nil
}
