package cmd

import (
	"os"
	"strings"

	"classfinder-backend/services/classfinder"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the course catalog the scan covers.",
	Run: func(cmd *cobra.Command, args []string) {
		catalog := classfinder.DefaultCatalog()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Credits"})

		for _, course := range catalog.Courses {
			t.AppendRow(table.Row{course.Code, course.Credits})
		}
		t.AppendFooter(table.Row{"Sections", strings.Join(catalog.Sections, " ")})

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
