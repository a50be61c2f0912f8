package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"network-quality/internal/csvlog"
	"network-quality/internal/models"
)

var statusColors = map[models.Status]*color.Color{
	models.StatusSuccess: color.New(color.FgGreen),
	models.StatusFailed:  color.New(color.FgRed),
	models.StatusTimeout: color.New(color.FgYellow),
	models.StatusError:   color.New(color.FgMagenta),
}

func printRecords(w io.Writer, records []models.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No data yet.")
		return
	}

	fmt.Fprintf(w, "Last %d measurements:\n", len(records))
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "%-20s %-8s %-8s %-8s %-10s\n", "Time", "Ping", "Down", "Up", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range records {
		status := string(r.Status)
		if c, ok := statusColors[r.Status]; ok {
			status = c.Sprint(status)
		}
		fmt.Fprintf(w, "%-20s %-8.2f %-8.2f %-8.2f %s\n",
			r.Timestamp.Format(csvlog.TimeLayout), r.PingMs, r.DownloadMbps, r.UploadMbps, status)
	}
}
