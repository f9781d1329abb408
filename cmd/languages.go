package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"medlens/internal/translation"
	"medlens/pkg/models"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported translation languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		langs := translation.Languages()

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(models.LanguagesResponse{Languages: langs})
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCODE\tDISPLAY NAME")
		for _, lang := range langs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", lang.Name, lang.Code, lang.DisplayName)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().Bool("json", false, "Output as JSON")
}
