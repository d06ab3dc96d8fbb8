package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/bridge"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Local HTTP bridge commands",
}

var bridgeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis bridge for a browser extension",
	Long: `Serve the analysis bridge on 127.0.0.1.

Endpoints:
  POST /v1/messages          ANALYZE and GET_PAGE_TEXT messages (JSON)
  GET  /v1/session           the focus session
  POST /v1/session           change goal or focus mode
  POST /v1/listing/changed   report that the video listing changed
  GET  /healthz              liveness

Without --port the first free port from 7421 is used.`,
	RunE: runBridgeServe,
}

func init() {
	bridgeServeCmd.Flags().IntP("port", "p", 0, "port to listen on (0 = first free from 7421)")
	bridgeCmd.AddCommand(bridgeServeCmd)
	rootCmd.AddCommand(bridgeCmd)
}

func runBridgeServe(cmd *cobra.Command, _ []string) error {
	if analyzerService == nil {
		return errors.New("analyzer not configured")
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()
	if sessionService != nil {
		startBackground(ctx)
	}

	server, err := startBridge(port)
	if err != nil {
		return err
	}
	defer server.Stop() //nolint:errcheck // shutdown on exit

	cmd.Printf("Bridge listening on %s\n", server.URL())
	return server.Wait(ctx)
}

// startBridge starts the bridge on port, or on the first free port from
// bridge.DefaultPort when port is 0.
func startBridge(port int) (*bridge.Server, error) {
	if port == 0 {
		free, err := bridge.FindAvailablePort(bridge.DefaultPort, bridge.DefaultPort+20)
		if err != nil {
			return nil, err
		}
		port = free
	}

	server, err := bridge.NewServer(bridge.Ports{
		Analyzer: analyzerService,
		Session:  sessionService,
		Scanner:  scannerService,
	}, port)
	if err != nil {
		return nil, err
	}
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start bridge: %w", err)
	}
	return server, nil
}
