package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/report"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/spf13/cobra"
)

var (
	exportOut     string
	exportSearch  string
	exportRecords string
)

// exportCmd writes a report workbook to disk.
var exportCmd = &cobra.Command{
	Use:   "export <all|omo|bureau_N|expert_N>",
	Short: "Build a report workbook",
	Long: `Build the workbook the server would return for the selector and write
it to --out (default: the generated file name in the current directory).

With --memory, --records loads a JSON array of {"bureauNumber", "record"}
objects into the in-memory store first, which turns msectl into an offline
converter.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file or directory")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "only records whose name or SNILS matches")
	exportCmd.Flags().StringVar(&exportRecords, "records", "", "JSON file of records to load (requires --memory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	sel, err := report.ParseSelector(args[0])
	if err != nil {
		return err
	}
	if exportRecords != "" && !useMemory {
		return errors.New("--records requires --memory")
	}

	b, err := openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	if exportRecords != "" {
		n, err := loadRecords(cmd, b, exportRecords)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "loaded %d records\n", n)
	}

	exp, err := b.service.Export(cmd.Context(), sel, exportSearch)
	if err != nil {
		return err
	}

	path := exportOut
	switch {
	case path == "":
		path = exp.FileName
	case isDir(path):
		path = filepath.Join(path, exp.FileName)
	}
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d bytes\n", path, exp.Records, len(exp.Data))
	return nil
}

// importedRecord is one element of a --records file.
type importedRecord struct {
	BureauNumber string         `json:"bureauNumber"`
	Record       record.Payload `json:"record"`
}

func loadRecords(cmd *cobra.Command, b *backend, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var items []importedRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	for i, item := range items {
		owner, err := unit.Parse(item.BureauNumber)
		if err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, err := b.service.SaveRecord(cmd.Context(), owner, item.Record, nil); err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return len(items), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
