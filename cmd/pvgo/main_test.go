package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/pvgo/internal/breakeven"
	"github.com/rgehrsitz/pvgo/internal/compare"
	"github.com/rgehrsitz/pvgo/internal/config"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const proposalYAML = `name: CLI Test
consumption:
  average_kwh: 300
location: Belo Horizonte
distributor: CEMIG
reference_year: 2025
equipment_cost: 9000
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proposal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs a fresh root command and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PVGO_SETTINGS", "")
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "pvgo", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"settings", "catalog", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	expected := []string{"calculate", "validate", "decompose", "irradiance", "kits", "compare", "break-even", "serve", "version"}
	registered := map[string]bool{}
	for _, c := range cmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %s should be registered", name)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "calculate")

	_, _, err = execute(t, "invalid-command")
	assert.Error(t, err)

	_, _, err = execute(t, "--invalid-flag")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pvgo dev (commit none"), out)
}

func TestCalculateCommand(t *testing.T) {
	input := writeInput(t, proposalYAML)

	out, stderr, err := execute(t, "calculate", input, "--format", "json")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var p domain.Proposal
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "CLI Test", p.Name)
	assert.Equal(t, "2.64", p.Sizing.Kwp.StringFixed(2))
	assert.Equal(t, 5, p.Sizing.PanelCount)
	assert.Len(t, p.CashFlow, 25)

	out, _, err = execute(t, "calculate", input, "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "PV PROPOSAL SUMMARY")

	_, _, err = execute(t, "calculate", input, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format: pdf")
}

func TestCalculateCommand_Estimated(t *testing.T) {
	input := writeInput(t, strings.Replace(proposalYAML, "Belo Horizonte", "Atlantis", 1))

	_, stderr, err := execute(t, "calculate", input, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "WARNING: estimated location")

	strict := writeInput(t, strings.Replace(proposalYAML, "Belo Horizonte", "Atlantis", 1)+"disable_fallback: true\n")
	_, _, err = execute(t, "calculate", strict)
	assert.ErrorIs(t, err, domain.ErrUnresolvedLocation)
}

func TestCalculateCommand_Save(t *testing.T) {
	input := writeInput(t, proposalYAML)
	dir := t.TempDir()
	chdir(t, dir)

	out, _, err := execute(t, "calculate", input, "--format", "html", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Proposal written to pv_proposal_")

	matches, err := filepath.Glob(filepath.Join(dir, "pv_proposal_*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Solar PV Proposal - CLI Test")
}

func TestCalculateCommand_Settings(t *testing.T) {
	input := writeInput(t, proposalYAML)
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("sizing:\n  panel_wattage: 600\n"), 0644))

	out, _, err := execute(t, "calculate", input, "--format", "json", "--settings", settings)
	require.NoError(t, err)
	var p domain.Proposal
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 600, p.Sizing.PanelWattage)

	_, _, err = execute(t, "calculate", input, "--settings", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	input := writeInput(t, proposalYAML)
	out, _, err := execute(t, "validate", input)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	invalid := writeInput(t, "name: Empty\nequipment_cost: 9000\n")
	_, _, err = execute(t, "validate", invalid)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecomposeCommand(t *testing.T) {
	out, stderr, err := execute(t, "decompose", "--consumption", "300", "--distributor", "CEMIG", "--year", "2025")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "BILL DECOMPOSITION")
	assert.Contains(t, out, "Distributor: CEMIG (residential), year 2025, surcharge none")
	assert.Contains(t, out, "Grand total")

	out, _, err = execute(t, "decompose", "--consumption", "300", "--distributor", "CEMIG", "--year", "2025", "--format", "json")
	require.NoError(t, err)
	var d domain.TariffDecomposition
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "CEMIG", d.Distributor)
	assert.True(t, d.GrandTotal.IsPositive())

	_, stderr, err = execute(t, "decompose", "--consumption", "300", "--distributor", "Unknown Power Co")
	require.NoError(t, err)
	assert.Contains(t, stderr, "WARNING: estimated distributor")

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{"strict unknown distributor", []string{"--consumption", "300", "--distributor", "Unknown Power Co", "--strict"}, domain.ErrUnresolvedDistributor},
		{"bad consumption", []string{"--consumption", "lots"}, domain.ErrInvalidInput},
		{"bad class", []string{"--consumption", "300", "--class", "alien"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"decompose"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, _, err = execute(t, "decompose", "--distributor", "CEMIG")
	assert.Error(t, err, "consumption is required")
}

func TestIrradianceCommand(t *testing.T) {
	out, _, err := execute(t, "irradiance", "Curitiba")
	require.NoError(t, err)
	assert.Contains(t, out, "Location: Curitiba")
	assert.Contains(t, out, "Source: measured")

	out, stderr, err := execute(t, "irradiance", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily average: 5.00 kWh/m²/day")
	assert.Contains(t, out, "estimated")
	assert.Contains(t, stderr, "WARNING")

	_, _, err = execute(t, "irradiance", "Atlantis", "--strict")
	assert.ErrorIs(t, err, domain.ErrUnresolvedLocation)
}

func TestKitsCommand(t *testing.T) {
	out, _, err := execute(t, "kits", "--min-kwp", "2.92", "--max-kwp", "3.36")
	require.NoError(t, err)
	assert.Contains(t, out, "KIT CATALOG 2025.03")
	assert.Contains(t, out, "gt-3.30-m")
	assert.Contains(t, out, "gt-3.33-f")
	assert.NotContains(t, out, "gt-4.40-m")
	assert.Contains(t, out, "2 kit(s)")

	out, _, err = execute(t, "kits", "--phase", "three", "--format", "json")
	require.NoError(t, err)
	var kits []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &kits))
	assert.Len(t, kits, 2)

	_, _, err = execute(t, "kits", "--min-kwp", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompareCommand(t *testing.T) {
	input := writeInput(t, proposalYAML)

	out, _, err := execute(t, "compare", input, "--format", "json")
	require.NoError(t, err)
	var compSet compare.ComparisonSet
	require.NoError(t, json.Unmarshal([]byte(out), &compSet))
	assert.Equal(t, "gt-2.75-m", compSet.BaseKitID)
	assert.Equal(t, input, compSet.InputPath)
	assert.NotEmpty(t, compSet.AlternativeResults)

	out, _, err = execute(t, "compare", input)
	require.NoError(t, err)
	assert.Contains(t, out, "KIT COMPARISON")
	assert.Contains(t, out, "(base)")

	out, _, err = execute(t, "compare", input, "--format", "compact")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Base: gt-2.75-m | "), out)

	out, _, err = execute(t, "compare", input, "--format", "csv", "--max", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3, "header, base and one alternative")

	_, _, err = execute(t, "compare", input, "--base", "missing")
	assert.ErrorIs(t, err, compare.ErrBaseKitNotFound)
}

func TestBreakEvenCommand(t *testing.T) {
	input := writeInput(t, proposalYAML)

	out, _, err := execute(t, "break-even", input, "--target-years", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN MARGIN RESULTS")

	out, _, err = execute(t, "break-even", input, "--target-years", "30", "--format", "json")
	require.NoError(t, err)
	var result breakeven.OptimizationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.OptimalMargin)

	out, _, err = execute(t, "break-even", input, "--horizons", "0.5,30")
	require.NoError(t, err)
	assert.Contains(t, out, "MARGIN LADDER")

	out, _, err = execute(t, "break-even", input, "--horizons", "0.5,30", "--format", "json")
	require.NoError(t, err)
	var ladder breakeven.MarginLadder
	require.NoError(t, json.Unmarshal([]byte(out), &ladder))
	assert.Len(t, ladder.Results, 2)

	_, _, err = execute(t, "break-even", input, "--goal", "minimum_npv")
	assert.Error(t, err, "minimum_npv needs --min-npv")

	_, _, err = execute(t, "break-even", input, "--horizons", "3,soon")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = execute(t, "break-even", input, "--format", "xml")
	assert.Error(t, err)
}

func TestResolvePort(t *testing.T) {
	settings := config.DefaultSettings()

	t.Setenv("PVGO_PORT", "")
	cmd := serveCmd()
	port, err := resolvePort(cmd, settings)
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	t.Setenv("PVGO_PORT", "9191")
	port, err = resolvePort(cmd, settings)
	require.NoError(t, err)
	assert.Equal(t, 9191, port)

	require.NoError(t, cmd.Flags().Set("port", "7000"))
	port, err = resolvePort(cmd, settings)
	require.NoError(t, err)
	assert.Equal(t, 7000, port)

	t.Setenv("PVGO_PORT", "http")
	_, err = resolvePort(serveCmd(), settings)
	assert.Error(t, err)
}

func TestRunServer_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
