package main

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/mseboard/internal/archive"
	"github.com/spf13/cobra"
)

// snapshotCmd runs one archive snapshot outside the server schedule.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Upload the consolidated workbook to the archive bucket once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Archive.Bucket == "" {
			return errors.New("ARCHIVE_S3_BUCKET is required")
		}

		b, err := openBackend(cmd.Context())
		if err != nil {
			return err
		}
		defer b.Close()

		store, err := archive.New(cmd.Context(), archive.Config{
			Region:          cfg.Archive.Region,
			Bucket:          cfg.Archive.Bucket,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			PathStyle:       cfg.Archive.PathStyle,
		})
		if err != nil {
			return err
		}

		key, err := b.service.Snapshot(cmd.Context(), store, cfg.Archive.Prefix)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", store.Bucket(), key)
		return nil
	},
}
