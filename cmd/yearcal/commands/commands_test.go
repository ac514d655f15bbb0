package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/yearcal/pkg/config"
	"github.com/Sumatoshi-tech/yearcal/pkg/render"
	"github.com/Sumatoshi-tech/yearcal/pkg/render/pdf"
	"github.com/Sumatoshi-tech/yearcal/pkg/report"
	"github.com/Sumatoshi-tech/yearcal/pkg/tabular"
)

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//yearcal//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240305T140000Z\r\n" +
	"SUMMARY:Meeting\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:b@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240305\r\n" +
	"SUMMARY:Call\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:c@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240306T090000Z\r\n" +
	"SUMMARY:A very long review meeting title that needs truncation\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:d@test\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20250101T090000Z\r\n" +
	"SUMMARY:Next year\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// writeTestCalendar writes the sample calendar and an empty config file.
func writeTestCalendar(t *testing.T) (dir, icsPath, cfgPath string) {
	t.Helper()

	dir = t.TempDir()
	icsPath = filepath.Join(dir, "calendar.ics")
	cfgPath = filepath.Join(dir, "yearcal.yaml")

	require.NoError(t, os.WriteFile(icsPath, []byte(testICS), 0o600))
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: warn\n"), 0o600))

	return dir, icsPath, cfgPath
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err = cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestParseYear(t *testing.T) {
	t.Parallel()

	year, err := parseYear("2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)

	for _, bad := range []string{"", "twenty", "0", "10000", "-5"} {
		_, err = parseYear(bad)
		require.ErrorIs(t, err, ErrInvalidYear, bad)
	}
}

func TestGenerate_PDFWithExports(t *testing.T) {
	t.Parallel()

	dir, icsPath, cfgPath := writeTestCalendar(t)
	output := filepath.Join(dir, "calendar.pdf")
	dbPath := filepath.Join(dir, "events.db")
	summaryPath := filepath.Join(dir, "summary.yaml")
	metricsPath := filepath.Join(dir, "yearcal.prom")

	_, _, err := execute(t, icsPath, output, "2024",
		"--config", cfgPath,
		"--json",
		"--sqlite", dbPath,
		"--summary", summaryPath,
		"--metrics-file", metricsPath,
	)
	require.NoError(t, err)

	pdfData, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF-")))

	csvData, err := os.ReadFile(tabular.CSVPath(output))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBF"+
		"Date,Event\n"+
		"2024-03-05,Meeting\n"+
		"2024-03-05,Call\n"+
		"2024-03-06,A very long review meeting title that needs truncation\n",
		string(csvData))

	_, err = os.Stat(filepath.Join(dir, "calendar.json"))
	require.NoError(t, err)

	db, err := tabular.OpenSQLite(dbPath)
	require.NoError(t, err)

	defer db.Close()

	rows, err := db.ReadRows(t.Context())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	summaryData, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	var sum report.Summary

	require.NoError(t, yaml.Unmarshal(summaryData, &sum))
	assert.Equal(t, 2024, sum.Year)
	assert.Equal(t, 3, sum.Events)
	assert.Equal(t, 2, sum.MaxDailyCount)
	assert.NotEmpty(t, sum.RunID)

	metricsData, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "yearcal_events_parsed")
}

func TestGenerate_HTMLByExtension(t *testing.T) {
	t.Parallel()

	dir, icsPath, cfgPath := writeTestCalendar(t)
	output := filepath.Join(dir, "calendar.html")

	_, _, err := execute(t, icsPath, output, "2024", "--config", cfgPath, "--no-csv", "--theme", "dark")
	require.NoError(t, err)

	html, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(html), "2024 Calendar")
	assert.Contains(t, string(html), `class="dark"`)
	assert.Contains(t, string(html), "A very long review meeting tit...")

	_, err = os.Stat(tabular.CSVPath(output))
	assert.True(t, os.IsNotExist(err), "--no-csv skips the export")
}

func TestGenerate_EmptyYearStillWritesOverview(t *testing.T) {
	t.Parallel()

	dir, icsPath, cfgPath := writeTestCalendar(t)
	output := filepath.Join(dir, "empty.html")

	_, _, err := execute(t, icsPath, output, "2023", "--config", cfgPath)
	require.NoError(t, err)

	html, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(html), "2023 Calendar")
	assert.NotContains(t, string(html), "Events, page")

	csvData, err := os.ReadFile(tabular.CSVPath(output))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFDate,Event\n", string(csvData))
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	dir, icsPath, cfgPath := writeTestCalendar(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "bad year",
			args:    []string{icsPath, filepath.Join(dir, "out.pdf"), "next", "--config", cfgPath},
			wantErr: ErrInvalidYear,
		},
		{
			name:    "unknown format",
			args:    []string{icsPath, filepath.Join(dir, "out.docx"), "2024", "--config", cfgPath},
			wantErr: render.ErrUnknownFormat,
		},
		{
			name:    "invalid page size",
			args:    []string{icsPath, filepath.Join(dir, "out.pdf"), "2024", "--config", cfgPath, "--page-size", "0"},
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerate_NonLatinTitles(t *testing.T) {
	t.Parallel()

	dir, _, cfgPath := writeTestCalendar(t)
	icsPath := filepath.Join(dir, "ja.ics")
	ics := strings.Replace(testICS, "SUMMARY:Meeting", "SUMMARY:会議", 1)
	require.NoError(t, os.WriteFile(icsPath, []byte(ics), 0o600))

	pdfOut := filepath.Join(dir, "ja.pdf")

	_, _, err := execute(t, icsPath, pdfOut, "2024", "--config", cfgPath)
	require.ErrorIs(t, err, pdf.ErrUnsupportedGlyphs)
	assert.Contains(t, err.Error(), "--font")

	_, statErr := os.Stat(pdfOut)
	assert.True(t, os.IsNotExist(statErr), "failed runs leave no output")

	_, statErr = os.Stat(tabular.CSVPath(pdfOut))
	assert.True(t, os.IsNotExist(statErr))

	htmlOut := filepath.Join(dir, "ja.html")

	_, _, err = execute(t, icsPath, htmlOut, "2024", "--config", cfgPath)
	require.NoError(t, err)

	html, err := os.ReadFile(htmlOut)
	require.NoError(t, err)
	assert.Contains(t, string(html), "会議")
}

func TestGenerate_MissingInput(t *testing.T) {
	t.Parallel()

	dir, _, cfgPath := writeTestCalendar(t)

	_, _, err := execute(t, filepath.Join(dir, "missing.ics"), filepath.Join(dir, "out.pdf"), "2024", "--config", cfgPath)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "out.pdf"))
	assert.True(t, os.IsNotExist(statErr), "no output without input")
}

func TestGenerate_WrongArgCount(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "only-one.ics")
	require.Error(t, err)
}

func TestPreview(t *testing.T) {
	t.Parallel()

	_, icsPath, cfgPath := writeTestCalendar(t)

	stdout, _, err := execute(t, "preview", icsPath, "2024", "--config", cfgPath, "--no-color", "--width", "100", "--page-size", "2")
	require.NoError(t, err)

	assert.Contains(t, stdout, "2024 Calendar")
	assert.Contains(t, stdout, " 5* 6*")
	assert.Contains(t, stdout, "Events, page 1")
	assert.Contains(t, stdout, "Events, page 2")
	assert.NotContains(t, stdout, "Events, page 3")
	assert.NotContains(t, stdout, "Next year", "other years are filtered out")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "yearcal "))
}
