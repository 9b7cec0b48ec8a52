package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/studio"
	th "github.com/desertthunder/prima/internal/testing"
)

var start = time.Date(2025, 11, 26, 18, 0, 0, 0, time.UTC)

func sampleShifts() []models.Shift {
	end := start.Add(2*time.Hour + 30*time.Minute)
	return []models.Shift{
		{
			ID:        "s1",
			UserName:  "Alice",
			StartTime: start,
			EndTime:   &end,
			Platforms: []models.PlatformMetric{
				{Name: models.Chaturbate, IsActive: true, TokensEarned: 1300},
				{Name: models.Stripchat},
				{Name: models.CamSoda},
				{Name: models.Cum4K, IsActive: true, TokensEarned: 150},
				{Name: models.Jasmin},
			},
			TotalTokens: 1450,
			Status:      models.ShiftCompleted,
			AIFeedback:  "Отличная смена, Alice!",
		},
	}
}

func TestExporters(t *testing.T) {
	rates := models.DefaultRates()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleShifts(), rates)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header and one row, got %d rows", len(rows))
		}

		wantHeader := "ID,Operator,Start,End,Hours,Status,Tokens,Revenue,Chaturbate,Stripchat,CamSoda,Cum4K,Jasmin,Feedback"
		if got := strings.Join(rows[0], ","); got != wantHeader {
			t.Errorf("header mismatch:\nwant %s\ngot  %s", wantHeader, got)
		}

		row := rows[1]
		checks := map[int]string{0: "s1", 1: "Alice", 4: "2.50", 5: "completed", 6: "1450", 7: "80.00", 8: "1300", 9: "", 11: "150", 13: "Отличная смена, Alice!"}
		for idx, want := range checks {
			if row[idx] != want {
				t.Errorf("column %s: want %q, got %q", rows[0][idx], want, row[idx])
			}
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleShifts(), rates)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# История смен",
			"**Смен**: 1",
			"**Токенов**: 1,450",
			"**Доход**: $80",
			"| 26.11.2025 18:00 | Alice | 2.50 | Chaturbate 1300, Cum4K 150 | 1,450 |",
			"## Отзывы",
			"Отличная смена, Alice!",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Without Feedback", func(t *testing.T) {
		shifts := sampleShifts()
		shifts[0].AIFeedback = ""
		data, err := ExportToMarkdown(shifts, rates)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "## Отзывы") {
			t.Error("expected no feedback section")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleShifts(), rates)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		want := "Смен: 1\n\n1. 26.11.2025 18:00  2.50 ч  1,450 tk  $80.00  [Chaturbate 1300, Cum4K 150]\n"
		if string(data) != want {
			t.Errorf("text mismatch:\nwant %q\ngot  %q", want, string(data))
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleShifts(), rates)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var got []ShiftRecord
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 1 || got[0].Platforms[models.Cum4K] != 150 {
			t.Errorf("unexpected records: %+v", got)
		}
		if _, ok := got[0].Platforms[models.Stripchat]; ok {
			t.Error("inactive platform should be omitted")
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(sampleShifts(), rates)
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var got []map[string]any
		if err := yaml.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if len(got) != 1 || got[0]["operator"] != "Alice" || got[0]["tokens"] != 1450 {
			t.Errorf("unexpected YAML records: %v", got)
		}
	})

	t.Run("Empty History", func(t *testing.T) {
		for _, format := range []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML} {
			if _, err := Export(nil, rates, format); err != nil {
				t.Errorf("%s export of empty history failed: %v", format, err)
			}
		}
		if _, err := Export(nil, rates, Format("pdf")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "Markdown", want: FormatMarkdown},
		{in: "", want: FormatText},
		{in: "yml", want: FormatYAML},
		{in: "json", want: FormatJSON},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("Default Filename", func(t *testing.T) {
		dir := t.TempDir()
		oldWd := th.MustGetwd(t)
		th.MustChdir(t, dir)
		defer th.MustChdir(t, oldWd)

		path, err := WriteExport(sampleShifts(), models.DefaultRates(), FormatCSV, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "history.csv" {
			t.Errorf("expected default filename history.csv, got %s", path)
		}
		th.AssertFileExists(t, filepath.Join(dir, "history.csv"))
	})

	t.Run("Custom Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shifts.md")
		got, err := WriteExport(sampleShifts(), models.DefaultRates(), FormatMarkdown, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		data, err := os.ReadFile(got)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "# История смен") {
			t.Errorf("unexpected content: %s", data)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "out.txt")
		if _, err := WriteExport(sampleShifts(), models.DefaultRates(), FormatText, path); err == nil {
			t.Error("expected error for unwritable path")
		}
	})
}

func TestReportText(t *testing.T) {
	date := time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC)

	t.Run("With Data", func(t *testing.T) {
		totals := studio.Totals(sampleShifts(), models.DefaultRates())
		got := ReportText(totals, "Prima Studio", date)

		want := strings.Join([]string{
			"📊 *ОТЧЕТ PRIMA STUDIO*",
			"📅 Дата: 26.11.2025",
			"",
			"💰 *Оборот:* 1,450 tk",
			"👯 *Смен:* 1",
			"🏆 *Топ площадка:* Chaturbate (1300)",
			"",
			"--------",
			"#prima #report #statistics",
		}, "\n")
		if got != want {
			t.Errorf("report mismatch:\nwant %q\ngot  %q", want, got)
		}
	})

	t.Run("No Data", func(t *testing.T) {
		got := ReportText(studio.StudioTotals{}, "", date)
		if !strings.Contains(got, "🏆 *Топ площадка:* Нет данных") {
			t.Errorf("expected no-data placeholder, got %s", got)
		}
		if !strings.Contains(got, "💰 *Оборот:* 0 tk") {
			t.Errorf("expected zero turnover, got %s", got)
		}
		if !strings.HasPrefix(got, "📊 *ОТЧЕТ PRIMA STUDIO*") {
			t.Errorf("expected default studio name, got %s", got)
		}
	})
}

func TestAgo(t *testing.T) {
	if got := Ago(start, start.Add(3*time.Hour)); got != "3 hours ago" {
		t.Errorf("expected '3 hours ago', got %q", got)
	}
}
