package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hcrypto "github.com/bfix/hyperborea/crypto"
	"github.com/bfix/hyperborea/node"
)

var keygenOut string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new node identity and write it as a standard blob",
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenOut, "out", "o", "relay.standard", "output path for the standard blob")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	_, sk, err := hcrypto.NewKeypair()
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}
	std := node.NewStandard(sk)
	if err := std.Save(keygenOut); err != nil {
		return fmt.Errorf("save standard blob: %w", err)
	}
	fmt.Printf("wrote %s\n", keygenOut)
	fmt.Printf("address: %s\n", std.Address())
	return nil
}
