package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("BUREAU_COUNT", "2")
	t.Setenv("EXCLUDED_BUREAUS", "")
	t.Setenv("EXPERTS", "7")

	useMemory, exportOut, exportSearch, exportRecords = false, "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestUnitsCommand(t *testing.T) {
	out, err := run(t, "units", "--memory")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "omo")
	assert.Contains(t, lines[2], "Бюро №1")
	assert.Contains(t, lines[4], "ЭС №7")
}

func TestRequiresDatabaseWithoutMemory(t *testing.T) {
	_, err := run(t, "units")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestExportCommand_FromRecordsFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
		{"bureauNumber": "bureau_1", "record": {"fullName": "Иванов", "mseDate": "2024-01-15"}},
		{"bureauNumber": "expert_7", "record": {"fullName": "Петров", "mseDate": "16.01.2024"}}
	]`), 0o644))
	output := filepath.Join(dir, "report.xlsx")

	out, err := run(t, "export", "all", "--memory", "--records", input, "-o", output)
	require.NoError(t, err, out)
	assert.Contains(t, out, "loaded 2 records")

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Все записи", "Бюро №1", "Бюро №2", "ЭС №7"}, f.GetSheetList())
}

func TestExportCommand_Errors(t *testing.T) {
	_, err := run(t, "export", "nobody", "--memory")
	assert.Error(t, err)

	_, err = run(t, "export", "all", "--records", "x.json")
	assert.Error(t, err)

	_, err = run(t, "init-db", "--memory")
	assert.Error(t, err)
}
