package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"localopt/internal/apint"
	"localopt/internal/ir"
	"localopt/internal/localopt"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] <file.ir>",
	Short: "Interpret a function from an IR file",
	Long: `Evaluate one function over the given arguments. With --opt the function
is optimized first and both results are printed, which makes it easy to check
that a rewrite preserved the value.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("func", "", "function to evaluate (default: the first one)")
	evalCmd.Flags().String("args", "", "comma-separated integer arguments")
	evalCmd.Flags().Bool("opt", false, "optimize before evaluating and compare with the original result")
}

func runEval(cmd *cobra.Command, args []string) error {
	fnName, err := cmd.Flags().GetString("func")
	if err != nil {
		return fmt.Errorf("failed to get func flag: %w", err)
	}
	argList, err := cmd.Flags().GetString("args")
	if err != nil {
		return fmt.Errorf("failed to get args flag: %w", err)
	}
	withOpt, err := cmd.Flags().GetBool("opt")
	if err != nil {
		return fmt.Errorf("failed to get opt flag: %w", err)
	}

	m, err := loadModule(args[0])
	if err != nil {
		return err
	}
	f, err := pickFunc(m, fnName)
	if err != nil {
		return err
	}
	vals, err := parseArgs(f, argList)
	if err != nil {
		return err
	}

	before, err := ir.Eval(f, vals)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !withOpt {
		fmt.Fprintln(out, before)
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := localopt.Run(cmd.Context(), m, cfg.Options())
	if err != nil {
		return err
	}
	if err := ir.Validate(m); err != nil {
		return fmt.Errorf("optimizer produced invalid IR: %w", err)
	}
	after, err := ir.Eval(f, vals)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "before: %s\nafter:  %s (%s)\n", before, after, formatCount(res.Total(), "rewrite"))
	if !before.Eq(after) {
		return fmt.Errorf("@%s: optimized result %s differs from %s", f.Name, after, before)
	}
	return nil
}

func loadModule(path string) (*ir.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	m, err := ir.Parse(path, string(src))
	if err != nil {
		return nil, err
	}
	if err := ir.Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func pickFunc(m *ir.Module, name string) (*ir.Func, error) {
	if name == "" {
		if len(m.Funcs) == 0 {
			return nil, fmt.Errorf("%s: no functions", m.Name)
		}
		return m.Funcs[0], nil
	}
	name = strings.TrimPrefix(name, "@")
	f := m.Func(name)
	if f == nil {
		return nil, fmt.Errorf("%s: no function @%s", m.Name, name)
	}
	return f, nil
}

func parseArgs(f *ir.Func, list string) ([]apint.Int, error) {
	var toks []string
	if strings.TrimSpace(list) != "" {
		toks = strings.Split(list, ",")
	}
	if len(toks) != len(f.Params) {
		return nil, fmt.Errorf("@%s: %w: got %d, want %d", f.Name, ir.ErrArgCount, len(toks), len(f.Params))
	}
	vals := make([]apint.Int, len(toks))
	for i, tok := range toks {
		v, err := apint.Parse(f.Params[i].Width, strings.TrimSpace(tok))
		if err != nil {
			return nil, fmt.Errorf("argument %%%s: %w", f.Params[i].Name, err)
		}
		vals[i] = v
	}
	return vals, nil
}
