package cmd

import (
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nanofuxion/tamer4lynx/internal/relay"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the development WebSocket log relay",
	Long: `Start the WebSocket server the on-device socket bridge connects to.
Every message a device sends is logged and echoed back. Stop with Ctrl+C.

Examples:
  tamer relay                 # Listen on :8008
  tamer relay --port 9000     # Custom port`,
	Args: cobra.NoArgs,
	RunE: runRelay,
}

var (
	relayPort       int
	relayHost       string
	relayGreetDelay time.Duration
)

func init() {
	rootCmd.AddCommand(relayCmd)

	relayCmd.Flags().IntVarP(&relayPort, "port", "p", relay.DefaultPort, "Port to listen on")
	relayCmd.Flags().StringVar(&relayHost, "host", "", "Host to bind to (default all interfaces)")
	relayCmd.Flags().DurationVar(&relayGreetDelay, "greet-delay", time.Second, "Delay before greeting a new client")
}

func runRelay(cmd *cobra.Command, _ []string) error {
	if err := ValidatePort(strconv.Itoa(relayPort)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := relay.New(relay.Options{
		Host:       relayHost,
		Port:       relayPort,
		GreetDelay: relayGreetDelay,
		Logger:     newLogger(cmd, false),
	})
	return srv.Run(ctx)
}
