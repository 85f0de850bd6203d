package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunehart/pixelgrid/pkg/pipeline"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// runCommand creates the run command for executing a pipeline manifest.
func (c *CLI) runCommand() *cobra.Command {
	var (
		outputDir string
		inputs    []string
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "run [manifest.toml]",
		Short: "Execute a pipeline manifest and write sink artifacts",
		Long: `Execute a pipeline manifest and write sink artifacts.

The run command parses the manifest, builds the node graph, executes every
node in dependency order, and writes each sink's image as PNG into the
output directory (named after the sink).

Source images come from the manifest's path parameters; --input overrides
or supplies them per node:

  pixelgrid run blur.toml --input photo=shot.jpg -o out/

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd.Context(), args[0], outputDir, inputs, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for sink artifacts")
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "inject a source image as name=path (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and overwrite the stored run")

	return cmd
}

func (c *CLI) runRun(ctx context.Context, manifestPath, outputDir string, inputs []string, noCache, refresh bool) error {
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	injected, err := loadInputs(inputs)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Running pipeline...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Manifest: string(manifest),
		Inputs:   injected,
		Refresh:  refresh,
		Logger:   loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError("Run failed")
		return err
	}
	spinner.Stop()

	if result.Stats.Failed > 0 {
		printWarning("%d node(s) failed, artifacts may be incomplete", result.Stats.Failed)
	}
	printSuccess("Run %s complete", result.RunID)
	printStats(result.Stats.Processed, result.Stats.Skipped, result.CacheHit)

	if len(result.Artifacts) == 0 {
		printInfo("No sink produced an artifact")
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	for name, data := range result.Artifacts {
		path := filepath.Join(outputDir, name+".png")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write artifact %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// loadInputs reads name=path pairs into PNG payloads keyed by node name.
// Files in other formats are transcoded to PNG on the way in.
func loadInputs(pairs []string) (map[string][]byte, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string][]byte, len(pairs))
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --input %q (want name=path)", pair)
		}
		img, err := pixel.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load input %s: %w", path, err)
		}
		data, err := img.EncodePNG()
		if err != nil {
			return nil, fmt.Errorf("encode input %s: %w", path, err)
		}
		out[name] = data
	}
	return out, nil
}
