package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskpulse/backend/pkg/utils/crypto"
)

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an admin API key and a config encryption key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adminKey, err := crypto.GenerateKey(32)
			if err != nil {
				return err
			}
			encKey, err := crypto.GenerateKey(32)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "auth.admin_api_key:      %s\n", adminKey)
			fmt.Fprintf(out, "security.encryption_key: %s\n", encKey)
			return nil
		},
	}
}

func newSealCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "seal <secret>",
		Short: "Encrypt a secret for use in config.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return errors.New("--key is required")
			}
			sealed, err := crypto.Seal(args[0], key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "security.encryption_key value")
	return cmd
}
