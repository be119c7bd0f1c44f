package engine

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// markDataTables classifies every <table> under root as a data table or a
// layout table, recording the result in ann (§4.8).
func markDataTables(root *goquery.Selection, ann *Annotations) {
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		ann.SetDataTable(table, isDataTable(table))
	})
}

func isDataTable(table *goquery.Selection) bool {
	if role, ok := table.Attr("role"); ok && role == "presentation" {
		return false
	}
	if dt, ok := table.Attr("datatable"); ok && dt == "0" {
		return false
	}
	if _, ok := table.Attr("summary"); ok {
		return true
	}
	hasCaptionWithElement := false
	table.Find("caption").EachWithBreak(func(_ int, caption *goquery.Selection) bool {
		if caption.Children().Length() > 0 {
			hasCaptionWithElement = true
			return false
		}
		return true
	})
	if hasCaptionWithElement {
		return true
	}
	if table.Find("col, colgroup, tfoot, thead, th").Length() > 0 {
		return true
	}
	if table.Find("table").Length() > 0 {
		return false
	}

	rows, cols := tableDimensions(table)
	if rows == 1 || cols == 1 {
		return false
	}
	if rows >= 10 || cols > 4 {
		return true
	}
	return rows*cols > 10
}

// tableDimensions sums rowspan across <tr> for the row count, and takes the
// maximum per-row sum of <td> colspans for the column count (§4.8).
func tableDimensions(table *goquery.Selection) (rows, cols int) {
	maxCols := 0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		rowspan := 1
		if v, ok := tr.Attr("rowspan"); ok {
			if n, err := strconv.Atoi(v); err == nil && n > rowspan {
				rowspan = n
			}
		}
		rows += rowspan

		rowCols := 0
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			colspan := 1
			if v, ok := td.Attr("colspan"); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					colspan = n
				}
			}
			rowCols += colspan
		})
		if rowCols > maxCols {
			maxCols = rowCols
		}
	})
	return rows, maxCols
}
