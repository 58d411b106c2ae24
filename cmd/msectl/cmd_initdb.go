package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// initDBCmd creates the schema and seeds unit passwords.
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the registry schema and seed unit passwords",
	Long: `Create the passwords and records tables when missing and give every
configured unit without a password its default one (OMO_PASSWORD for the
oversight unit, DEFAULT_PASSWORD for the rest). Existing passwords are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if useMemory {
			return errors.New("init-db needs a database; drop --memory")
		}
		if cfg.Credentials.OversightPassword == "" {
			return errors.New("OMO_PASSWORD is required to seed the oversight unit")
		}

		b, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer b.Close()

		n, err := b.service.SeedCredentials(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema ready, %d unit passwords seeded\n", n)
		return nil
	},
}
