// Command slidecast converts slide decks into narrated, captioned videos.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"slidecast/internal/config"
	"slidecast/internal/logger"
	"slidecast/internal/watch"
	"slidecast/models"
	"slidecast/services"
)

var (
	cfgPath  string
	cfg      *config.Settings
	exitCode int
)

func main() {
	root := &cobra.Command{
		Use:   "slidecast",
		Short: "Convert slide decks into narrated videos with burned-in captions",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.SetLevel(cfg.LogLevel)
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "settings file (default ./slidecast.yaml)")

	root.AddCommand(convertCmd(), checkCmd(), watchCmd(), voicesCmd())

	if err := root.Execute(); err != nil {
		if exitCode == 0 {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <deck>",
		Short: "Convert one slide deck to a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			pipeline := services.NewPipeline(cfg)
			pipeline.SetEventFunc(func(e models.Event) {
				if e.SlideIndex == models.NoSlide {
					logger.Info("[%s] %s %s", e.Stage, e.Status, e.Detail)
				} else {
					logger.Info("[%s] slide %d %s %s", e.Stage, e.SlideIndex, e.Status, e.Detail)
				}
			})

			result := pipeline.Run(ctx, args[0])
			report(result)
			exitCode = result.ExitCode()
			if !result.Success() {
				return result.Err
			}
			return nil
		},
	}
	return cmd
}

func report(result *models.ConversionResult) {
	for _, d := range result.Diagnostics {
		if d.Status == models.StatusDegraded || d.Status == models.StatusFailed {
			if d.SlideIndex == models.NoSlide {
				fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Status, d.Stage, d.Detail)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %s slide %d: %s\n", d.Status, d.Stage, d.SlideIndex, d.Detail)
			}
		}
	}
	if result.Success() {
		fmt.Printf("video written to %s\n", result.VideoPath)
		if result.Degraded {
			fmt.Println("completed with degraded slides, see diagnostics above")
		}
	} else {
		fmt.Fprintf(os.Stderr, "conversion failed: %v\n", result.Err)
	}
	if result.WorkspacePath != "" {
		fmt.Fprintf(os.Stderr, "workspace preserved at %s\n", result.WorkspacePath)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the external engines are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := services.NewPipeline(cfg).CheckDependencies()
			missing := 0
			for name, err := range deps {
				if err != nil {
					fmt.Printf("%-14s MISSING (%v)\n", name, err)
					missing++
				} else {
					fmt.Printf("%-14s ok\n", name)
				}
			}
			if missing > 0 {
				exitCode = 1
				return fmt.Errorf("%d engine(s) missing", missing)
			}
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	var concurrent int
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Convert every slide deck dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			pipeline := services.NewPipeline(cfg)
			w, err := watch.New(args[0], func(ctx context.Context, path string) error {
				result := pipeline.Run(ctx, path)
				report(result)
				return result.Err
			}, concurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			if err := w.Start(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrent, "concurrent", 1, "maximum decks converting at once")
	return cmd
}

func voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the curated narration voices",
		Run: func(cmd *cobra.Command, args []string) {
			for _, v := range services.ListVoices() {
				fmt.Printf("%-24s %-22s %s\n", v.ID, v.Language, v.Gender)
			}
		},
	}
}
