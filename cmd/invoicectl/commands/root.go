package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/evcomfg/invoice-backend/internal/di"
	"github.com/evcomfg/invoice-backend/internal/domain"
	"github.com/evcomfg/invoice-backend/internal/orderform"
	"github.com/evcomfg/invoice-backend/internal/platform/config"
	"github.com/evcomfg/invoice-backend/internal/platform/observability"
)

// stdinPath selects standard input or output in place of a file path.
const stdinPath = "-"

type app struct {
	envFile   string
	verbose   bool
	logger    *zap.Logger
	container *di.Container
}

// Execute runs the invoicectl root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each call returns an independent tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "invoicectl",
		Short:        "Render EV cart invoices from order JSON",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file with INVOICE_ overrides (empty to skip)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log pipeline events to stderr")

	root.AddCommand(renderCmd(a), quoteCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.logger = zap.NewNop()
	if a.verbose {
		a.logger = newConsoleLogger(cmd.ErrOrStderr())
	}

	cfg, err := config.Load(config.WithEnvFile(a.envFile))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	container, err := di.NewContainer(cfg,
		di.WithEventLogger(observability.EventLogger(a.logger, zapcore.DebugLevel)),
	)
	if err != nil {
		return fmt.Errorf("build invoice pipeline: %w", err)
	}
	a.container = container
	return nil
}

func (a *app) decodeOptions(rejectNegative bool) orderform.Options {
	return orderform.Options{
		RejectNegative: rejectNegative || a.container.Config.Pricing.RejectNegativePrices,
	}
}

// readOrder loads and validates an order from path, or from stdin when path is "-".
func (a *app) readOrder(cmd *cobra.Command, path string, opts orderform.Options) (context.Context, domain.OrderRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, domain.OrderRequest{}, fmt.Errorf("read order: %w", err)
	}

	order, err := orderform.Decode(data, opts)
	if err != nil {
		a.logger.Debug("order rejected", zap.Error(err))
		return nil, domain.OrderRequest{}, errors.New(orderform.Message(err))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return observability.WithLogger(ctx, a.logger), order, nil
}

func newConsoleLogger(w io.Writer) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}
