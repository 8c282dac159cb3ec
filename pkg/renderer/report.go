package renderer

import (
	"fmt"
	"io"

	"github.com/df07/go-tiled-raytracer/pkg/core"
	"github.com/df07/go-tiled-raytracer/pkg/integrator"
	"github.com/olekukonko/tablewriter"
)

// WriteStatsTable renders launch statistics as a table
func WriteStatsTable(w io.Writer, stats RenderStats) {
	mean, stddev := stats.TileTimeStats()

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Generation", fmt.Sprintf("%d", stats.Generation)},
		{"Workers", fmt.Sprintf("%d", stats.Workers)},
		{"Passes", fmt.Sprintf("%d", stats.Passes)},
		{"Pixels written", fmt.Sprintf("%d", stats.TotalPixels)},
		{"Samples", fmt.Sprintf("%d", stats.TotalSamples)},
		{"Rays", fmt.Sprintf("%d", stats.TotalRays)},
		{"Rays/s", fmt.Sprintf("%.0f", stats.RaysPerSecond())},
		{"Tiles done", fmt.Sprintf("%d", stats.TilesDone)},
		{"Tiles cancelled", fmt.Sprintf("%d", stats.TilesCancelled)},
		{"Tile time", fmt.Sprintf("%v ± %v", mean, stddev)},
	})
	table.SetFooter([]string{"Elapsed", stats.Elapsed.String()})
	table.Render()
}

// WriteTraceTable renders a pixel trace, one row per ray segment
func WriteTraceTable(w io.Writer, trace PixelTrace) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Type", "Depth", "Origin", "Direction", "Hit", "Point"})
	for i, seg := range trace.Segments {
		hit := fmt.Sprintf("%t", seg.Hit)
		if seg.Type == integrator.SegmentShadow {
			hit = "visible"
			if seg.Occluded {
				hit = "occluded"
			}
		}
		point := ""
		if seg.Hit || seg.Type == integrator.SegmentShadow {
			point = formatVec(seg.Point)
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			string(seg.Type),
			fmt.Sprintf("%d", seg.Depth),
			formatVec(seg.Ray.Origin),
			formatVec(seg.Ray.Direction),
			hit,
			point,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "Radiance", formatVec(trace.Color)})
	table.Render()
}

func formatVec(v core.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
