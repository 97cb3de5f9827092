package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/hbs2jsx/formatter"
	"github.com/gnolang/hbs2jsx/internal/config"
	"github.com/gnolang/hbs2jsx/internal/watch"
)

var watchDelay time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Recompile templates whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()
		return runWatch(ctx, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
	},
}

func init() {
	addOptionFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDelay, "delay", watch.DefaultDelay, "Wait this long after a change before recompiling")
}

func runWatch(ctx context.Context, logger *zap.Logger, stdout, stderr io.Writer, cfg config.Config, roots []string) error {
	w, err := watch.New(roots, cfg, watchDelay, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	p, err := newProcessor(logger, cfg)
	if err != nil {
		return err
	}
	rebuild := func(ctx context.Context, paths []string) {
		results, err := p.Run(ctx, paths)
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintln(stderr, formatter.FormatError(r.Path, r.Err, sourceOf(r)))
			}
		}
		if results == nil && err != nil {
			logger.Error("Error compiling templates", zap.Error(err))
			return
		}
		written, err := p.Write(results)
		if err != nil {
			logger.Error("Error writing output", zap.Error(err))
		}
		for _, path := range written {
			fmt.Fprintf(stdout, "wrote %s\n", path)
		}
	}

	rebuild(ctx, roots)
	fmt.Fprintf(stdout, "watching %d path(s) for changes\n", len(roots))

	err = w.Run(ctx, rebuild)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
