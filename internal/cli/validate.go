package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/lunehart/pixelgrid/pkg/errors"
)

// validateCommand creates the validate command for checking a manifest.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest.toml]",
		Short: "Check a pipeline manifest without running it",
		Long: `Check a pipeline manifest without running it.

The validate command parses the manifest, builds the node graph, and reports
structural problems: unknown kinds, bad parameters, port conflicts, cycles,
and unconnected inputs. Nothing is processed and no artifacts are written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0])
		},
	}

	return cmd
}

func (c *CLI) runValidate(manifestPath string) error {
	manifest, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", manifestPath, err)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, m, err := runner.Build(manifest)
	if err != nil {
		printError("Manifest is invalid")
		printDetail("%s", apperrors.UserMessage(err))
		return err
	}

	name := m.Name
	if name == "" {
		name = manifestPath
	}

	if err := runner.Validate(manifest); err != nil {
		printWarning("Graph builds but has gaps")
		printDetail("%s", apperrors.UserMessage(err))
		printDetail("affected nodes are skipped at run time")
	} else {
		printSuccess("Manifest %s is valid", name)
	}
	printDetail("%d nodes, %d edges", g.Len(), g.EdgeCount())

	order := g.ProcessingOrder()
	if len(order) > 0 {
		printNewline()
		printInfo("Processing order:")
		for i, n := range order {
			printDetail("%2d. %s (%s)", i+1, n.Name(), n.Kind())
		}
	}

	printNewline()
	printNextStep("Run it", fmt.Sprintf("pixelgrid run %s", manifestPath))
	return nil
}
