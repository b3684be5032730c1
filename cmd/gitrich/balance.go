package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Inspect and validate balance tables",
	}
	cmd.AddCommand(balanceDumpCmd(), balanceCheckCmd())
	return cmd
}

func balanceDumpCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the resolved balance tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := settings.Tables()
			if err != nil {
				return err
			}
			return dumpTables(cmd.OutOrStdout(), out, tables)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func dumpTables(stdout io.Writer, out string, t *config.Tables) error {
	b, err := t.Marshal()
	if err != nil {
		return err
	}
	if out == "" {
		_, err = stdout.Write(b)
		return err
	}
	if err := atomic.WriteFile(out, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("balance written", zap.String("path", out))
	return nil
}

func balanceCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a balance file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkTables(cmd.OutOrStdout(), args[0])
		},
	}
}

func checkTables(w io.Writer, path string) error {
	t, err := config.Load(path)
	if err != nil {
		return err
	}
	if unknown := t.UnknownConditionKinds(); len(unknown) > 0 {
		fmt.Fprintf(w, "%s: ok, but these entities can never unlock:\n  %s\n", path, strings.Join(unknown, "\n  "))
		return nil
	}
	fmt.Fprintf(w, "%s: ok (%d employees, %d freelance projects, %d open source projects)\n",
		path, len(t.Employees), len(t.FreelanceProjects), len(t.OpenSourceProjects))
	return nil
}
