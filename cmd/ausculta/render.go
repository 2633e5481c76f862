package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mrezendes/ausculta/internal/session"
)

// renderReport formats a session report as a human-readable summary table
// followed by the advisory lists.
func renderReport(rep *session.Report) string {
	var b strings.Builder

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	tw.AppendHeader(table.Row{"Assessment", "Result"})

	c := rep.Consolidated
	tw.AppendRow(table.Row{"Overall urgency", fmt.Sprintf("%s (%d)", c.Overall.Band, c.Overall.Score)})
	tw.AppendRow(table.Row{"Recommended action", c.Overall.Action})
	tw.AppendRow(table.Row{"Consistency", fmt.Sprintf("%d/100", c.ConsistencyScore)})
	tw.AppendRow(table.Row{"Reliability", string(c.Reliability)})
	tw.AppendRow(table.Row{"Data quality", string(c.DataQuality)})
	tw.AppendRow(table.Row{"Confidence", fmt.Sprintf("%d%%", c.Confidence)})
	tw.AppendSeparator()

	if rep.Acoustic != nil {
		a := rep.Acoustic
		tw.AppendRow(table.Row{"Voice stress", fmt.Sprintf("%d/10 (%s)", a.StressLevel, a.EmotionalState)})
		tw.AppendRow(table.Row{"Breathing", string(a.BreathingPattern)})
		tw.AppendRow(table.Row{"Voice quality", string(a.VoiceQuality)})
	} else {
		tw.AppendRow(table.Row{"Voice analysis", "(not available)"})
	}

	if rep.Symptoms != nil {
		s := rep.Symptoms
		tw.AppendRow(table.Row{"Symptom score", fmt.Sprintf("%d/100 (%s)", s.Score, s.Band)})
		if len(s.Symptoms) > 0 {
			tw.AppendRow(table.Row{"Symptoms", strings.Join(s.Symptoms, ", ")})
		}
	} else {
		tw.AppendRow(table.Row{"Questionnaire", "(not available)"})
	}

	if rep.Facial != nil {
		f := rep.Facial
		tw.AppendRow(table.Row{"Heart rate", fmt.Sprintf("%d bpm", f.HeartRate)})
		tw.AppendRow(table.Row{"Facial stress", fmt.Sprintf("%d/10", f.StressLevel)})
	} else {
		tw.AppendRow(table.Row{"Facial telemetry", "(not available)"})
	}

	b.WriteString(tw.Render())
	b.WriteByte('\n')

	writeList(&b, "Recommendations", recommendations(rep))
	writeList(&b, "Cross-modal conflicts", c.ConflictingMetrics)
	writeList(&b, "Outliers", c.Outliers)
	writeList(&b, "Warnings", rep.Warnings)

	fmt.Fprintf(&b, "\nSession %s completed in %s.\n", rep.SessionID, rep.Duration)
	return b.String()
}

func recommendations(rep *session.Report) []string {
	if rep.Symptoms == nil {
		return nil
	}
	return rep.Symptoms.Recommendations
}

// writeList appends a titled bullet list, skipping empty lists entirely.
func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}
