package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvasdoc/internal/canvas"
	"github.com/ziadkadry99/canvasdoc/internal/loader"
	"github.com/ziadkadry99/canvasdoc/internal/summary"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.canvas>",
	Short: "Describe a canvas in the terminal",
	Long: `Parses a .canvas file and prints its bounds, nodes and edges. With
--text, the Markdown of every text node is rendered as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("text", false, "render the Markdown of text nodes")
	inspectCmd.Flags().Bool("json", false, "print the summary as JSON")
	inspectCmd.Flags().Int("width", 100, "word wrap width")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	d, err := canvas.ParseFile(args[0])
	if err != nil {
		return err
	}
	s := summary.Summarize(loader.Title(args[0]), d)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	width, _ := cmd.Flags().GetInt("width")
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	fmt.Println(styleTitle.Render(s.Title) + "  " + styleDim.Render(s.CountsLine()))
	if s.Skipped > 0 {
		printWarning("%d unsupported nodes skipped", s.Skipped)
	}

	md := s.Markdown()
	if withText, _ := cmd.Flags().GetBool("text"); withText {
		md += textNodes(d)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

// textNodes collects the Markdown of every text node under its id.
func textNodes(d *canvas.Diagram) string {
	var b strings.Builder
	for _, n := range d.Nodes {
		t, ok := n.(*canvas.TextNode)
		if !ok || strings.TrimSpace(t.Text) == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("\n## Text\n")
		}
		fmt.Fprintf(&b, "\n---\n\n`%s`\n\n%s\n", t.ID, t.Text)
	}
	return b.String()
}
