package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/philipparndt/printtracker/internal/ui"
	"github.com/philipparndt/printtracker/pkg/analysis"
	"github.com/philipparndt/printtracker/pkg/mesh"
	"github.com/philipparndt/printtracker/pkg/reader"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display geometry information about a model file",
	Long:  "Show the detected format, vertex and triangle counts, volume, surface area and bounding dimensions.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	stat, err := os.Stat(filename)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Error reading file: %v", err))
		os.Exit(1)
	}

	stream, err := reader.Open(filename)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Error opening model: %v", err))
		os.Exit(1)
	}
	defer stream.Close()

	builder := mesh.NewBuilder()
	for stream.Next() {
		builder.Add(stream.Vertex())
	}
	if err := stream.Err(); err != nil {
		ui.PrintError(fmt.Sprintf("Error parsing model: %v", err))
		os.Exit(1)
	}
	model := builder.Model()

	ui.PrintTitle(filepath.Base(filename))
	ui.PrintKeyValue("Format", stream.Format().String())
	ui.PrintKeyValue("Size", humanize.Bytes(uint64(stat.Size())))

	ui.PrintHeader("Mesh")
	ui.PrintKeyValue("Vertices", humanize.Comma(int64(builder.Vertices())))
	ui.PrintKeyValue("Triangles", humanize.Comma(int64(builder.Triangles())))
	if rest := builder.Vertices() % 3; rest != 0 {
		ui.PrintWarning(fmt.Sprintf("%d trailing vertices do not form a triangle and were ignored", rest))
	}
	ui.PrintKeyValue("Volume", fmt.Sprintf("%s mm³", humanize.CommafWithDigits(model.VolumeMm3, 2)))
	ui.PrintKeyValue("Surface area", fmt.Sprintf("%s mm²", humanize.CommafWithDigits(model.SurfaceAreaMm2, 2)))

	ui.PrintHeader("Dimensions")
	if builder.Vertices() == 0 {
		ui.PrintWarning("model has no vertices, dimensions are a placeholder")
	}
	dims := analysis.AnalyseMesh(model)
	ui.PrintKeyValue("Width (X)", analysis.FormatMeasurement(dims.Width, "mm"))
	ui.PrintKeyValue("Height (Y)", analysis.FormatMeasurement(dims.Height, "mm"))
	ui.PrintKeyValue("Depth (Z)", analysis.FormatMeasurement(dims.Depth, "mm"))
	if builder.Vertices() > 0 {
		c := builder.Bounds().Center()
		ui.PrintKeyValue("Center", fmt.Sprintf("%.2f, %.2f, %.2f mm", c.X, c.Y, c.Z))
	}
	if builder.Triangles() > 0 {
		ui.PrintKeyValue("Longest edge", analysis.FormatMeasurement(builder.LongestEdge(), "mm"))
	}
}
