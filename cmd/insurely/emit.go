package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// listing is one command's result in the three output shapes.
type listing struct {
	value   any
	headers []string
	rows    [][]string
	ids     []string
}

func (l *listing) add(id string, row ...string) {
	l.ids = append(l.ids, id)
	l.rows = append(l.rows, row)
}

// emit prints l as JSON, as bare IDs in quiet mode, or as a table.
func (c *cli) emit(asJSON bool, l listing) error {
	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(l.value)
	}
	if c.quiet {
		for _, id := range l.ids {
			fmt.Fprintln(c.out, id)
		}
		return nil
	}
	if len(l.rows) == 0 {
		c.printer.Info("nothing to show")
		return nil
	}
	t := c.printer.NewTable(l.headers...)
	for _, r := range l.rows {
		t.AddRow(r...)
	}
	return t.Render()
}

// show prints v as JSON or as aligned key/value lines.
func (c *cli) show(asJSON bool, v any, id string, pairs ...string) error {
	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if c.quiet {
		fmt.Fprintln(c.out, id)
		return nil
	}
	c.printer.Fields(pairs...)
	return nil
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
