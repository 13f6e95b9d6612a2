package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.ir>...",
	Short: "Parse and validate IR files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		m, err := loadModule(path)
		if err != nil {
			return err
		}
		instrs := 0
		for _, f := range m.Funcs {
			instrs += f.NumInstrs()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %s)\n", path,
			formatCount(len(m.Funcs), "func"), formatCount(instrs, "instruction"))
	}
	return nil
}
