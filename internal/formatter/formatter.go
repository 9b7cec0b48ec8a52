// package formatter renders shift history and studio reports (CSV, Markdown, plain text, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
)

// ParseFormat accepts the format names and their common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// ShiftRecord is the flattened export row for one shift.
type ShiftRecord struct {
	ID         string                      `json:"id" yaml:"id"`
	Operator   string                      `json:"operator" yaml:"operator"`
	Start      time.Time                   `json:"start" yaml:"start"`
	End        *time.Time                  `json:"end,omitempty" yaml:"end,omitempty"`
	Hours      string                      `json:"hours" yaml:"hours"`
	Status     models.ShiftStatus          `json:"status" yaml:"status"`
	Tokens     int                         `json:"tokens" yaml:"tokens"`
	Revenue    float64                     `json:"revenue" yaml:"revenue"`
	Platforms  map[models.PlatformName]int `json:"platforms" yaml:"platforms"`
	AIFeedback string                      `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// Record flattens shift, keeping only the platforms that were worked.
func Record(shift models.Shift, rates models.Rates) ShiftRecord {
	rec := ShiftRecord{
		ID:         shift.ID,
		Operator:   shift.UserName,
		Start:      shift.StartTime,
		End:        shift.EndTime,
		Hours:      studio.FormatHours(shift.Duration()),
		Status:     shift.Status,
		Tokens:     shift.TotalTokens,
		Revenue:    studio.ShiftRevenue(shift, rates),
		Platforms:  make(map[models.PlatformName]int),
		AIFeedback: shift.AIFeedback,
	}
	for _, p := range shift.ActivePlatforms() {
		rec.Platforms[p.Name] = p.TokensEarned
	}
	return rec
}

// Export renders shifts in format.
func Export(shifts []models.Shift, rates models.Rates, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(shifts, rates)
	case FormatMarkdown:
		return ExportToMarkdown(shifts, rates)
	case FormatText:
		return ExportToText(shifts, rates)
	case FormatJSON:
		return ExportToJSON(shifts, rates)
	case FormatYAML:
		return ExportToYAML(shifts, rates)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes one row per shift with a token column for every catalog platform.
func ExportToCSV(shifts []models.Shift, rates models.Rates) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Operator", "Start", "End", "Hours", "Status", "Tokens", "Revenue"}
	for _, name := range models.PlatformNames() {
		headers = append(headers, string(name))
	}
	headers = append(headers, "Feedback")
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, shift := range shifts {
		rec := Record(shift, rates)
		end := ""
		if rec.End != nil {
			end = rec.End.Format(time.RFC3339)
		}
		row := []string{
			rec.ID,
			rec.Operator,
			rec.Start.Format(time.RFC3339),
			end,
			rec.Hours,
			string(rec.Status),
			strconv.Itoa(rec.Tokens),
			strconv.FormatFloat(rec.Revenue, 'f', 2, 64),
		}
		for _, name := range models.PlatformNames() {
			cell := ""
			if tk, ok := rec.Platforms[name]; ok {
				cell = strconv.Itoa(tk)
			}
			row = append(row, cell)
		}
		row = append(row, rec.AIFeedback)

		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a summary followed by a table of shifts and their feedback.
func ExportToMarkdown(shifts []models.Shift, rates models.Rates) ([]byte, error) {
	var buf bytes.Buffer
	totals := studio.Totals(shifts, rates)

	buf.WriteString("# История смен\n\n")
	buf.WriteString(fmt.Sprintf("**Смен**: %d\n", totals.CompletedCount))
	buf.WriteString(fmt.Sprintf("**Токенов**: %s\n", humanize.Comma(int64(totals.TotalTokens))))
	buf.WriteString(fmt.Sprintf("**Доход**: $%s\n\n", humanize.CommafWithDigits(totals.Revenue, 2)))

	buf.WriteString("| Дата | Оператор | Часы | Площадки | Токены |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for _, shift := range shifts {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			shift.StartTime.Format(dateTimeLayout),
			shift.UserName,
			studio.FormatHours(shift.Duration()),
			platformList(shift),
			humanize.Comma(int64(shift.TotalTokens)),
		))
	}

	var notes []models.Shift
	for _, shift := range shifts {
		if shift.AIFeedback != "" {
			notes = append(notes, shift)
		}
	}
	if len(notes) > 0 {
		buf.WriteString("\n## Отзывы\n")
		for _, shift := range notes {
			buf.WriteString(fmt.Sprintf("\n### %s\n\n%s\n", shift.StartTime.Format(dateTimeLayout), shift.AIFeedback))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders one numbered line per shift.
func ExportToText(shifts []models.Shift, rates models.Rates) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Смен: %d\n\n", len(shifts)))
	for i, shift := range shifts {
		buf.WriteString(fmt.Sprintf("%d. %s  %s ч  %s tk  $%.2f  [%s]\n",
			i+1,
			shift.StartTime.Format(dateTimeLayout),
			studio.FormatHours(shift.Duration()),
			humanize.Comma(int64(shift.TotalTokens)),
			studio.ShiftRevenue(shift, rates),
			platformList(shift),
		))
	}

	return buf.Bytes(), nil
}

// ExportToJSON writes the flattened records as indented JSON.
func ExportToJSON(shifts []models.Shift, rates models.Rates) ([]byte, error) {
	data, err := json.MarshalIndent(records(shifts, rates), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML writes the flattened records as YAML.
func ExportToYAML(shifts []models.Shift, rates models.Rates) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(records(shifts, rates)); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport renders shifts in format and writes them to path.
//
// Defaults to history.{format} as the filename.
func WriteExport(shifts []models.Shift, rates models.Rates, format Format, path string) (string, error) {
	if path == "" {
		path = "history." + string(format)
	}

	data, err := Export(shifts, rates, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// ReportText renders the administrator's share report.
func ReportText(totals studio.StudioTotals, studioName string, date time.Time) string {
	if studioName == "" {
		studioName = "PRIMA STUDIO"
	}

	top := "Нет данных"
	if p, ok := totals.Top(); ok {
		top = fmt.Sprintf("%s (%d)", p.Name, p.Tokens)
	}

	lines := []string{
		fmt.Sprintf("📊 *ОТЧЕТ %s*", strings.ToUpper(studioName)),
		fmt.Sprintf("📅 Дата: %s", date.Format(dateLayout)),
		"",
		fmt.Sprintf("💰 *Оборот:* %s tk", humanize.Comma(int64(totals.TotalTokens))),
		fmt.Sprintf("👯 *Смен:* %d", totals.CompletedCount),
		fmt.Sprintf("🏆 *Топ площадка:* %s", top),
		"",
		"--------",
		"#prima #report #statistics",
	}
	return strings.Join(lines, "\n")
}

// Ago renders t relative to now ("3 hours ago").
func Ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func records(shifts []models.Shift, rates models.Rates) []ShiftRecord {
	out := make([]ShiftRecord, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, Record(shift, rates))
	}
	return out
}

func platformList(shift models.Shift) string {
	parts := make([]string, 0, len(shift.Platforms))
	for _, p := range shift.ActivePlatforms() {
		parts = append(parts, fmt.Sprintf("%s %d", p.Name, p.TokensEarned))
	}
	return strings.Join(parts, ", ")
}
