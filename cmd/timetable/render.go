package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"smart-classroom/backend/internal/client"
)

const freeMarker = "—"

func (cli *commandLine) render() {
	renderGrid(cli.out, cli.session.Grid())
	renderLegend(cli.out, cli.session.Catalog())
}

// renderGrid 表头为第 0 天的时间段标签；未加载与全部空闲分开显示
func renderGrid(out io.Writer, g *client.Grid) {
	if g == nil || !g.Loaded {
		fmt.Fprintln(out, "Weekly Grid — (未加载)")
		return
	}
	fmt.Fprintf(out, "Weekly Grid — %s\n", g.ClassName)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(g.Header, "\t"))
	for day, row := range g.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if c.State == client.CellAssigned {
				cells[i] = fmt.Sprintf("%s (%s • %s)", c.Subject, c.Teacher, c.Room)
			} else {
				cells[i] = freeMarker
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", client.DayNames[day], strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func renderLegend(out io.Writer, cat *client.Catalog) {
	if cat == nil || len(cat.Subjects) == 0 {
		return
	}
	parts := make([]string, len(cat.Subjects))
	for i, s := range cat.Subjects {
		parts[i] = fmt.Sprintf("%s [%s]", s.Name, client.SubjectColor(s.Name))
	}
	fmt.Fprintf(out, "Legend: %s\n", strings.Join(parts, "  "))
}

func (cli *commandLine) printClasses() {
	cat := cli.session.Catalog()
	current, _ := cli.session.CurrentClass()
	for _, c := range cat.Classes {
		mark := " "
		if c.ID == current {
			mark = "*"
		}
		fmt.Fprintf(cli.out, "%s %d  %s (%d)\n", mark, c.ID, c.Name, c.Size)
	}
}

func (cli *commandLine) printRoster() {
	cat := cli.session.Catalog()
	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Teachers\t")
	for _, t := range cat.Teachers {
		fmt.Fprintf(tw, "  %d\t%s\t\n", t.ID, t.Name)
	}
	fmt.Fprintln(tw, "Subjects\t")
	for _, s := range cat.Subjects {
		fmt.Fprintf(tw, "  %d\t%s\t\n", s.ID, s.Name)
	}
	fmt.Fprintln(tw, "Rooms\t")
	for _, r := range cat.Rooms {
		fmt.Fprintf(tw, "  %d\t%s — %d\t\n", r.ID, r.Name, r.Capacity)
	}
	tw.Flush()
}
