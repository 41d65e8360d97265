package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/web"
)

var (
	renderOut    string
	renderAssets string
)

var renderCmd = &cobra.Command{
	Use:   "render [page]",
	Short: "Render a page document",
	Long: `Render one of the rota pages (login, register, work) as a complete HTML
document, using the branding from the config file. Without an argument
the login page is rendered.

Example:
  rota render
  rota render work --out work.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write the document to a file instead of stdout")
	renderCmd.Flags().StringVar(&renderAssets, "assets", "", "Directory to read page assets from")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	id, err := page.ParseID(name)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	assets := web.Embedded()
	if renderAssets != "" {
		assets = web.GetAssets(renderAssets)
	}

	catalogue, err := page.NewCatalogue(assets, page.Branding{
		Branch: cfg.Branding.Branch,
		Credit: cfg.Branding.Credit,
	})
	if err != nil {
		return fmt.Errorf("failed to build pages: %w", err)
	}

	doc, err := catalogue.Render(id)
	if err != nil {
		return err
	}

	if renderOut == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), doc)
		return err
	}
	if err := os.WriteFile(renderOut, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOut, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s page to %s\n", id, renderOut)
	return nil
}
