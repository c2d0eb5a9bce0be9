package cmd

import (
	"fmt"
	"os"

	"classfinder-backend/lib/browser"
	"classfinder-backend/lib/scrapers/akademik"
	"classfinder-backend/lib/timezone"
	"classfinder-backend/services/classfinder"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scanSession string
var scanCourses []string
var scanYear int
var scanSemester int

func init() {
	scanCmd.Flags().StringVar(
		&scanSession, "session", "",
		"PHPSESSID of a live portal session. Acquired interactively when empty.",
	)
	scanCmd.Flags().StringSliceVar(
		&scanCourses, "courses", nil,
		"Limit the scan to these course codes.",
	)
	scanCmd.Flags().IntVar(
		&scanYear, "year", timezone.AcademicYear(timezone.Now()),
		"Academic year to scan.",
	)
	scanCmd.Flags().IntVar(
		&scanSemester, "semester", timezone.Semester(timezone.Now()),
		"Semester to scan (1 or 2).",
	)
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <nrp>",
	Short: "Scan the catalog for the sections an NRP is enrolled in.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "an NRP is required")
			os.Exit(1)
		}
		nrp := args[0]

		catalog := classfinder.DefaultCatalog()
		catalog.Year = scanYear
		catalog.Semester = scanSemester
		if len(scanCourses) > 0 {
			var filtered []classfinder.Course
			for _, code := range scanCourses {
				if !catalog.Contains(code) {
					fmt.Fprintf(
						os.Stderr,
						"unknown course %q, did you mean %q?\n",
						code, catalog.NearestCode(code),
					)
					os.Exit(1)
				}
				filtered = append(filtered, classfinder.Course{
					Code:    code,
					Credits: catalog.Credits(code),
				})
			}
			catalog.Courses = filtered
		}

		sessionID := scanSession
		if sessionID == "" {
			acquirer := browser.NewAcquirer(browser.Options{BaseURL: BaseUrl})
			defer acquirer.Release()

			var err error
			sessionID, err = acquirer.Acquire(cmd.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
		}

		client := akademik.NewClient(akademik.ClientOptions{BaseURL: BaseUrl})
		scanner := classfinder.NewService(client, catalog, classfinder.Options{})

		results, err := scanner.Scan(cmd.Context(), nrp, sessionID)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Section", "Title", "Name", "Credits"})

		totalCredits := 0
		for _, match := range results {
			t.AppendRow(table.Row{
				match.CourseCode, match.Section, match.Course, match.Name, match.Credits,
			})
			totalCredits += match.Credits
		}
		t.AppendFooter(table.Row{"", "", "", "Total", totalCredits})

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
