package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/dtmf-codec/configs"
	"github.com/RyanBlaney/dtmf-codec/pkg/dtmf"
)

var titleCaser = cases.Title(language.English)

// DecodeReport is the outcome of decoding one capture
type DecodeReport struct {
	Decoded    string               `json:"decoded" yaml:"decoded"`
	File       string               `json:"file,omitempty" yaml:"file,omitempty"`
	SampleRate int                  `json:"sample_rate" yaml:"sample_rate"`
	Duration   float64              `json:"duration_seconds" yaml:"duration_seconds"`
	Frames     int                  `json:"frames" yaml:"frames"`
	Resolved   int                  `json:"resolved" yaml:"resolved"`
	Unresolved int                  `json:"unresolved" yaml:"unresolved"`
	Detections dtmf.DecodedSequence `json:"detections,omitempty" yaml:"detections,omitempty"`
}

// NewDecodeReport summarizes a decoded capture
func NewDecodeReport(file string, sig *dtmf.Signal, decoded dtmf.DecodedSequence) *DecodeReport {
	return &DecodeReport{
		Decoded:    decoded.String(),
		File:       file,
		SampleRate: sig.SampleRate,
		Duration:   sig.Duration().Seconds(),
		Frames:     len(decoded),
		Resolved:   decoded.Resolved(),
		Unresolved: decoded.Unresolved(),
		Detections: decoded,
	}
}

// WriteDecodeReport renders report in format. Without detail the JSON form is
// just {"decoded": "..."}.
func WriteDecodeReport(w io.Writer, report *DecodeReport, format string, detail bool) error {
	switch format {
	case configs.OutputJSON:
		var payload any = map[string]string{"decoded": report.Decoded}
		if detail {
			payload = report
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)

	case configs.OutputYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to format yaml report: %w", err)
		}
		_, err = w.Write(data)
		return err

	case configs.OutputTable:
		return writeDecodeTable(w, report)

	default:
		_, err := fmt.Fprintln(w, report.Decoded)
		return err
	}
}

func writeDecodeTable(w io.Writer, report *DecodeReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := []string{"frame", "offset", "time", "row hz", "column hz", "symbol"}
	for i, h := range headers {
		headers[i] = titleCaser.String(h)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for i, det := range report.Detections {
		seconds := 0.0
		if report.SampleRate > 0 {
			seconds = float64(det.Offset) / float64(report.SampleRate)
		}
		fmt.Fprintf(tw, "%d\t%d\t%.3fs\t%s\t%s\t%s\n",
			i, det.Offset, seconds, formatHz(det.Row), formatHz(det.Column), det.Symbol)
	}

	fmt.Fprintf(tw, "\n%s\t%s\n", titleCaser.String("decoded"), report.Decoded)
	fmt.Fprintf(tw, "%s\t%d/%d\n", titleCaser.String("resolved"), report.Resolved, report.Frames)

	return tw.Flush()
}

// WriteEncodeResult renders an encode summary in format
func WriteEncodeResult(w io.Writer, result *EncodeResult, format string) error {
	switch format {
	case configs.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)

	case configs.OutputYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to format yaml result: %w", err)
		}
		_, err = w.Write(data)
		return err

	default:
		_, err := fmt.Fprintf(w, "%s: %d symbols, %d samples at %d Hz (%.2fs, %d-bit)\n",
			result.Output, result.Symbols, result.Samples, result.SampleRate, result.Duration, result.BitDepth)
		if err != nil {
			return err
		}
		for _, s := range result.Skipped {
			if _, err := fmt.Fprintf(w, "skipped %q at position %d\n", s.Symbol, s.Position); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteKeypad renders the keypad layout with its frequencies
func WriteKeypad(w io.Writer, table *dtmf.KeypadTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	cols := table.Columns()
	fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s\t\n", formatHz(cols[0]), formatHz(cols[1]), formatHz(cols[2]), formatHz(cols[3]))

	grid := table.Grid()
	for r, low := range table.Rows() {
		row := grid[r]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", formatHz(low), row[0], row[1], row[2], row[3])
	}

	return tw.Flush()
}

func formatHz(f float64) string {
	if f == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", f)
}
