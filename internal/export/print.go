package export

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

var germanWeekdays = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

type printRow struct {
	Time   string
	Title  string
	Person string
	Type   string
	Amount string
}

type printDay struct {
	Label string
	Rows  []printRow
}

type printPage struct {
	Heading string
	Days    []printDay
}

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{.Heading}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1rem; border-bottom: 1px solid #999; padding-bottom: 2px; margin-top: 1.2rem; }
table { width: 100%; border-collapse: collapse; }
td { padding: 2px 8px 2px 0; vertical-align: top; }
td.time { width: 4rem; color: #555; }
td.type { width: 7rem; color: #555; }
td.amount { width: 7rem; text-align: right; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>{{.Heading}}</h1>
{{range .Days}}<h2>{{.Label}}</h2>
<table>
{{range .Rows}}<tr><td class="time">{{.Time}}</td><td>{{.Title}}</td><td>{{.Person}}</td><td class="type">{{.Type}}</td><td class="amount">{{.Amount}}</td></tr>
{{end}}</table>
{{end}}</body>
</html>
`))

// Printable writes the print-friendly HTML view of the events, grouped by
// local date in ascending order.
type Printable struct {
	norm    *dateutil.Normalizer
	appName string
}

func NewPrintable(norm *dateutil.Normalizer, appName string) *Printable {
	return &Printable{norm: norm, appName: appName}
}

func (p *Printable) Render(w io.Writer, heading string, events []model.Event) error {
	byDay := make(map[string][]model.Event)
	var days []string
	for _, ev := range events {
		if ev.Date == "" {
			continue
		}
		if _, ok := byDay[ev.Date]; !ok {
			days = append(days, ev.Date)
		}
		byDay[ev.Date] = append(byDay[ev.Date], ev)
	}
	sort.Strings(days)

	page := printPage{Heading: fmt.Sprintf("%s – %s", p.appName, heading)}
	for _, day := range days {
		rows := byDay[day]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time < rows[j].Time })

		pd := printDay{Label: p.dayLabel(day)}
		for _, ev := range rows {
			row := printRow{
				Time:  ev.Time,
				Title: ev.Title,
				Type:  TypeLabel(ev.Type),
			}
			if ev.Person != nil {
				row.Person = ev.Person.Name
			}
			if ev.Billing != nil {
				row.Amount = FormatAmount(ev.Billing.Amount, ev.Billing.Currency)
			}
			pd.Rows = append(pd.Rows, row)
		}
		page.Days = append(page.Days, pd)
	}

	return printTmpl.Execute(w, page)
}

func (p *Printable) dayLabel(day string) string {
	t, err := p.norm.ParseDay(day)
	if err != nil {
		return day
	}
	return fmt.Sprintf("%s, %s", germanWeekdays[t.Weekday()], t.Format("02.01.2006"))
}
