package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parget/parget/internal/engine"
	"github.com/parget/parget/internal/fetch"
	"github.com/parget/parget/internal/output"
	"github.com/parget/parget/internal/utils"
)

var (
	connections   int
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	debug         bool
)

var PargetVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "parget",
	Short:   "Parget is a resumable segmented download engine",
	Version: PargetVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&connections, "connections", "c", engine.DefaultConnections, "Number of segments for fresh downloads")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Response header timeout")
	rootCmd.PersistentFlags().DurationVar(&kaTimeout, "keep-alive", 60*time.Second, "Keep-alive timeout")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "agent", "a", "", "Custom user agent")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP proxy URL")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", nil, "Custom header in 'Key: Value' form (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func httpClientConfig() utils.HTTPClientConfig {
	return utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxyURL,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		UserAgent:     userAgent,
		Headers:       utils.ParseHeaderArgs(headers),
	}
}

// newSource picks the fetch capability for a URL scheme.
func newSource(ctx context.Context, url string) (fetch.Source, error) {
	switch utils.DetermineSourceType(url) {
	case "s3":
		return fetch.NewS3Source(ctx)
	default:
		return fetch.NewHTTPSource(utils.NewClient(httpClientConfig())), nil
	}
}

// runDownload drives one engine attempt with console progress and SIGINT
// mapped to a cooperative cancel.
func runDownload(ctx context.Context, registry *engine.Registry, id, url, outputPath string) error {
	source, err := newSource(ctx, url)
	if err != nil {
		return err
	}
	console := output.NewConsole(outputPath)
	eng := engine.New(source, registry, console.Emit, engine.Options{Connections: connections})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			eng.Cancel(id)
		case <-done:
		}
	}()
	defer close(done)
	defer signal.Stop(sigCh)

	err = eng.Start(ctx, id, url, outputPath)
	switch {
	case err == nil:
		console.Finish("completed", nil)
	case errors.Is(err, engine.ErrPaused):
		console.Finish("paused", err)
	default:
		console.Finish("failed", err)
	}
	return err
}
