package akademik

import (
	"bytes"
	"fmt"

	"classfinder-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoRosterTable = fmt.Errorf("no roster table found in page")

// the portal's markup drifts between deployments, so the roster table
// is located by an ordered list of strategies instead of one selector.
// a new layout means appending a strategy, not rewriting the parser.
type tableStrategy struct {
	name   string
	locate func(doc *goquery.Document) *goquery.Selection
}

var rosterTableStrategies = []tableStrategy{
	{
		name: "style class",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find("table.GridStyle").First()
		},
	},
	{
		name: "second table",
		locate: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find("table").Eq(1)
		},
	},
}

// the course title lives in the second row of the page header table,
// under a class that has changed spelling over the years.
var courseTitleSelectors = []string{
	`td.PageTitle`,
	`td[class="PageTitle"]`,
	`td[align="left"]`,
}

// ParseRoster extracts the student rows of one roster page. an empty
// slice with a nil error means the section exists but nobody is in it,
// which the caller cannot distinguish from "student not here" and is
// not supposed to.
func ParseRoster(page []byte, courseCode, section string) ([]Student, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var table *goquery.Selection
	for _, strategy := range rosterTableStrategies {
		sel := strategy.locate(doc)
		if sel.Length() > 0 {
			table = sel
			break
		}
	}
	if table == nil {
		return nil, ErrNoRosterTable
	}

	title := courseTitle(doc, courseCode, section)

	students := []Student{}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		// header row
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		nrp := htmlutil.CellText(cells.Eq(1))
		name := htmlutil.CellText(cells.Eq(2))
		if nrp == "" || name == "" {
			return
		}
		students = append(students, Student{
			NRP:    nrp,
			Name:   name,
			Course: title,
		})
	})

	return students, nil
}

// a missing title never fails the parse, it degrades to a placeholder.
func courseTitle(doc *goquery.Document, courseCode, section string) string {
	row := doc.Find("table").First().Find("tr").Eq(1)
	for _, selector := range courseTitleSelectors {
		title := htmlutil.CellText(row.Find(selector).First())
		if title != "" {
			return title
		}
	}
	return fmt.Sprintf("%s-%s", courseCode, section)
}
