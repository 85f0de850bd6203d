package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunehart/pixelgrid/pkg/render/nodelink"
)

// visualizeCommand creates the visualize command for rendering a manifest's
// graph structure.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [manifest.toml]",
		Short: "Render a manifest's node graph as a diagram",
		Long: `Render a manifest's node graph as a diagram.

The visualize command builds the graph from the manifest and renders its
structure as a node-link diagram via Graphviz. No image processing happens;
sources don't need their images present.

Formats: svg (default), png, dot (raw Graphviz text).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(args[0], format, output, detailed)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: manifest name with format extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include kinds, IDs, and port names in labels")

	return cmd
}

func (c *CLI) runVisualize(manifestPath, format, output string, detailed bool) error {
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, err := runner.Build(manifest)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = nodelink.RenderSVG(dot)
	case "png":
		data, err = nodelink.RenderPNG(dot)
	default:
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot)", format)
	}
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	if output == "" {
		output = strings.TrimSuffix(manifestPath, ".toml") + "." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %d nodes, %d edges", g.Len(), g.EdgeCount())
	printFile(output)
	return nil
}
