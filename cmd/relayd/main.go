// Command relayd runs a single Hyperborea relay: the seven-verb HTTP
// driver, its metrics endpoint, and (optionally) a UPnP port mapping for
// its public address.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "relayd",
	Short: "Hyperborea overlay relay daemon",
	Long: `relayd runs a Hyperborea relay server: identity, routing and
message-inbox services exposed over the seven-verb REST-like API. The
lookup verb answers from this relay's own router; it does not walk peer
servers.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "relayd: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to a .env file with HYPERBOREA_* overrides")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keygenCmd)
}
