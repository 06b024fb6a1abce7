package instrument

import (
	"fmt"
	"io"
	"strings"
)

const reportTimeLayout = "2006-01-02T15:04:05"

// WriteMosaicReport writes a human-readable summary of a mosaic plan.
func WriteMosaicReport(w io.Writer, p *MosaicPlan) {
	kind := "raster"
	layout := ""
	if p.Disk != nil {
		layout = fmt.Sprintf("%d x %d frames", p.Disk.PointsX, p.Disk.PointsY)
	} else {
		kind = "custom"
		layout = fmt.Sprintf("%d frames, tour-ordered", p.FrameCount)
	}

	fmt.Fprintf(w, "Mosaic plan: %s (%s)\n", p.Target, kind)
	fmt.Fprintln(w, strings.Repeat("─", 52))
	fmt.Fprintf(w, "%-18s %s\n", "Layout", layout)
	fmt.Fprintf(w, "%-18s %s\n", "Start", p.StartTime.Format(reportTimeLayout))
	fmt.Fprintf(w, "%-18s %s\n", "End", p.EndTime.Format(reportTimeLayout))
	fmt.Fprintf(w, "%-18s %s\n", "Duration", p.Duration.Round(0))
	fmt.Fprintf(w, "%-18s %d filter(s), %.3f s exposure each\n", "Per position", p.Filters, p.Exposure)
	fmt.Fprintf(w, "%-18s %.3f %s\n", "Dwell", p.DwellTime, p.timeUnit)
	fmt.Fprintf(w, "%-18s %.1f Mbits\n", "Data volume", p.DataVolumeMbits)
	if p.Iterations > 1 {
		fmt.Fprintf(w, "%-18s %d (grid grown for target growth)\n", "Iterations", p.Iterations)
	}
}

// WriteScanReport writes a human-readable summary of a scan plan.
func WriteScanReport(w io.Writer, p *ScanPlan) {
	fmt.Fprintf(w, "Scan plan: %s\n", p.Target)
	fmt.Fprintln(w, strings.Repeat("─", 52))
	fmt.Fprintf(w, "%-18s %d lines\n", "Layout", p.Lines)
	fmt.Fprintf(w, "%-18s %s\n", "Start", p.StartTime.Format(reportTimeLayout))
	fmt.Fprintf(w, "%-18s %s\n", "End", p.EndTime.Format(reportTimeLayout))
	fmt.Fprintf(w, "%-18s %s\n", "Duration", p.Duration.Round(0))
	fmt.Fprintf(w, "%-18s %.1f Mbits\n", "Data volume", p.DataVolumeMbits)
	if p.Iterations > 1 {
		fmt.Fprintf(w, "%-18s %d (scan grown for target growth)\n", "Iterations", p.Iterations)
	}
}
