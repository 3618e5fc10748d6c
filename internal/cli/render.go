package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/edgekit/edgectl/internal/api"
)

// Rendering styles.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true)                                  //nolint:gochecknoglobals // Style constants
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true) //nolint:gochecknoglobals // Style constants
	captionStyle = lipgloss.NewStyle().Faint(true)                                 //nolint:gochecknoglobals // Style constants
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(18)                        //nolint:gochecknoglobals // Style constants
	panelStyle   = lipgloss.NewStyle().                                            //nolint:gochecknoglobals // Style constants
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// msgPrinter formats counts with locale-aware separators in captions.
var msgPrinter = message.NewPrinter(language.English) //nolint:gochecknoglobals // Shared printer

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderDigTable renders the answer section of a dig response as a table.
// In short mode only the record values are shown.
func renderDigTable(w io.Writer, resp *api.DigResponse, hostname, queryType string, short bool) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			// The record value column gets emphasis.
			if (short && col == 0) || (!short && col == 4) {
				return valueStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	if short {
		tbl.Headers("VALUE")
		for _, rec := range resp.Result.AnswerSection {
			tbl.Row(rec.Value)
		}
	} else {
		tbl.Headers("HOSTNAME", "TTL", "CLASS", "TYPE", "VALUE")
		for _, rec := range resp.Result.AnswerSection {
			tbl.Row(rec.Hostname, strconv.Itoa(rec.TTL), rec.RecordClass, rec.RecordType, rec.Value)
		}
	}

	fmt.Fprintln(w, tbl)
	caption := msgPrinter.Sprintf("%d records for %s %s", len(resp.Result.AnswerSection), queryType, hostname)
	fmt.Fprintln(w, captionStyle.Render(caption))
}

// renderTranslate renders a translated error reference as a summary panel
// followed by any forward log lines.
func renderTranslate(w io.Writer, resp *api.TranslateResponse) {
	rows := []struct{ label, value string }{
		{"URL", resp.Result.URL},
		{"HTTP status", strconv.Itoa(resp.Result.HTTPResponseCode)},
		{"Reason", resp.Result.ReasonForFailure},
		{"Date", resp.Result.Date},
		{"Edge server IP", resp.Result.EdgeServerIP.IP},
		{"Client IP", resp.Result.ClientIP.IP},
		{"Origin IP", resp.Result.OriginIP},
		{"Property", resp.Result.PropertyName},
		{"User agent", resp.Result.UserAgent},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row.value == "" || row.value == "0" {
			continue
		}
		sb.WriteString(labelStyle.Render(row.label))
		sb.WriteString(row.value)
		sb.WriteByte('\n')
	}
	fmt.Fprintln(w, panelStyle.Render(strings.TrimRight(sb.String(), "\n")))

	if len(resp.SuggestedActions) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Suggested actions:"))
		for _, action := range resp.SuggestedActions {
			fmt.Fprintf(w, "  - %s\n", action)
		}
	}

	if logs := resp.Result.LogLines.Logs; len(logs) > 0 {
		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("DATE", "EDGE IP", "METHOD", "STATUS", "ERROR")
		for _, l := range logs {
			tbl.Row(l.DateTime, l.EdgeIP, l.HTTPMethod, l.HTTPStatus, l.Error)
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintln(w, captionStyle.Render(msgPrinter.Sprintf("%d log lines", len(logs))))
	}
}
