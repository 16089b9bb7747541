package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	hcrypto "github.com/bfix/hyperborea/crypto"
	"github.com/bfix/hyperborea/inbox"
	"github.com/bfix/hyperborea/internal/config"
	"github.com/bfix/hyperborea/logger"
	"github.com/bfix/hyperborea/node"
	"github.com/bfix/hyperborea/router"
	"github.com/bfix/hyperborea/server"
	"github.com/bfix/hyperborea/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay's HTTP and metrics endpoints",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	std, err := loadOrCreateStandard(cfg.StandardPath)
	if err != nil {
		return fmt.Errorf("node identity: %w", err)
	}
	logger.Printf(logger.INFO, "[relayd] node address %s\n", std.Address())

	ib, err := openInbox(cfg)
	if err != nil {
		return fmt.Errorf("open inbox: %w", err)
	}

	r := router.NewInMemory()
	driver := server.NewDriver(std.Secret, r, ib)
	httpServer := transport.NewServer(driver)

	if cfg.UPnPEnabled {
		pm, err := transport.NewPortMapper()
		if err != nil {
			logger.Printf(logger.WARN, "[relayd] UPnP disabled: %v\n", err)
		} else {
			defer pm.Discard()
			if _, portStr, err := net.SplitHostPort(cfg.ListenAddr); err == nil {
				if port, err := strconv.Atoi(portStr); err == nil {
					if ext, err := pm.Open(port, transport.TCP, 0); err != nil {
						logger.Printf(logger.WARN, "[relayd] UPnP mapping failed: %v\n", err)
					} else {
						logger.Printf(logger.INFO, "[relayd] reachable at %s\n", ext)
					}
				}
			}
		}
	}

	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", server.Handler())
		logger.Printf(logger.INFO, "[relayd] metrics listening on %s\n", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, metricsMux); err != nil {
			logger.Printf(logger.ERROR, "[relayd] metrics server stopped: %v\n", err)
		}
	}()

	return httpServer.ListenAndServe(cfg.ListenAddr)
}

func loadOrCreateStandard(path string) (*node.Standard, error) {
	if _, err := os.Stat(path); err == nil {
		return node.LoadStandard(path)
	}
	_, sk, err := hcrypto.NewKeypair()
	if err != nil {
		return nil, err
	}
	std := node.NewStandard(sk)
	if err := std.Save(path); err != nil {
		return nil, err
	}
	logger.Printf(logger.INFO, "[relayd] generated new node identity at %s\n", path)
	return std, nil
}

func openInbox(cfg config.Config) (inbox.Inbox, error) {
	switch cfg.InboxBackend {
	case config.InboxPebble:
		return inbox.OpenPebbleQueue(cfg.InboxRoot)
	default:
		return inbox.NewStoredQueue(cfg.InboxRoot)
	}
}
