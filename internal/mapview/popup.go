package mapview

import (
	"bytes"
	"html/template"
	"strconv"
)

type PopupRow struct {
	Label string
	Value *int
}

var statsTable = template.Must(template.New("popup").Parse(
	`<table>{{range .}}<tr><td>{{.Label}}</td><td>{{if .Value}}{{.Value}}{{else}}&mdash;{{end}}</td></tr>{{end}}</table>`,
))

// StatsPopup renders rows as a two-column table, or the escaped fallback
// text when there are no rows.
func StatsPopup(rows []PopupRow, fallback string) template.HTML {
	if len(rows) == 0 {
		return template.HTML(template.HTMLEscapeString(fallback))
	}

	type cell struct {
		Label string
		Value string
	}
	cells := make([]cell, 0, len(rows))
	for _, row := range rows {
		c := cell{Label: row.Label}
		if row.Value != nil {
			c.Value = strconv.Itoa(*row.Value)
		}
		cells = append(cells, c)
	}

	var buf bytes.Buffer
	if err := statsTable.Execute(&buf, cells); err != nil {
		return template.HTML(template.HTMLEscapeString(fallback))
	}
	return template.HTML(buf.String())
}
