package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Victor-armando18/discount-function/internal/infrastructure"
	"github.com/Victor-armando18/discount-function/internal/infrastructure/diff"
	"github.com/Victor-armando18/discount-function/internal/infrastructure/yaml"
	"github.com/Victor-armando18/discount-function/pkg/function"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errNamedExport = errors.New("Please invoke a named export.")

type flags struct {
	input   string
	patch   string
	policy  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "discountfn",
		Short:         "Evaluate the discount function for one host target",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), errNamedExport.Error())
			return errNamedExport
		},
	}
	root.PersistentFlags().StringVar(&f.input, "input", "", "input envelope file (stdin when empty)")
	root.PersistentFlags().StringVar(&f.patch, "patch", "", "RFC 6902 patch applied to the input before evaluation")
	root.PersistentFlags().StringVar(&f.policy, "policy", "", "YAML deployment policy")
	root.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "debug logging on stderr")

	for _, target := range function.Targets() {
		root.AddCommand(newTargetCmd(target, f))
	}
	return root
}

func newTargetCmd(target function.Target, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   string(target),
		Short: fmt.Sprintf("Run the %s target", target),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(f.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			err = run(cmd, target, f, logger)
			if err != nil {
				logger.Error("target failed", zap.String("target", string(target)), zap.Error(err))
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}
}

func run(cmd *cobra.Command, target function.Target, f *flags, logger *zap.Logger) error {
	policy, err := yaml.NewPolicyLoader().Load(f.policy)
	if err != nil {
		return err
	}

	input, err := readInput(cmd.InOrStdin(), f.input)
	if err != nil {
		return err
	}

	if f.patch != "" {
		patchData, err := os.ReadFile(f.patch)
		if err != nil {
			return err
		}
		patched, err := infrastructure.ApplyInputPatch(input, patchData)
		if err != nil {
			return err
		}
		if delta, changed, err := (&diff.Differ{}).Diff(input, patched); err == nil && changed {
			logger.Debug("input patched", zap.ByteString("delta", delta))
		}
		input = patched
	}

	fn, err := function.New(function.Options{Policy: policy, Logger: logger})
	if err != nil {
		return err
	}
	out, err := fn.Run(cmd.Context(), target, input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
