// Package report assembles a self-contained HTML report from a scenario's
// parameters, metrics, cohort tables and A/B results. It only consumes core
// outputs; nothing feeds back into the simulation.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/Nimos95/product-sandbox/internal/cohort"
	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/stats"
	"github.com/Nimos95/product-sandbox/internal/store"
)

// Data is everything a report renders.
type Data struct {
	ScenarioName string
	Params       sim.Params
	Metrics      store.Snapshot
	AB           stats.Result
	LTV          *cohort.Table
	Retention    *cohort.Table
	GeneratedAt  time.Time
}

type pivotRow struct {
	Cohort string
	Cells  []string
}

type pivotTable struct {
	Title   string
	Months  []int
	Rows    []pivotRow
	Present bool
}

type reportData struct {
	Title        string
	ScenarioName string
	Generated    string
	Params       sim.Params
	Metrics      store.Snapshot
	ABApplicable bool
	AB           stats.Result
	ABVerdict    string
	Tables       []pivotTable
}

func pivot(title string, t *cohort.Table, format string) pivotTable {
	pt := pivotTable{Title: title}
	if t == nil || t.Empty() {
		return pt
	}
	pt.Present = true
	pt.Months = t.Months
	for _, c := range t.Cohorts {
		row := pivotRow{Cohort: c}
		for _, m := range t.Months {
			row.Cells = append(row.Cells, fmt.Sprintf(format, t.Value(c, m)))
		}
		pt.Rows = append(pt.Rows, row)
	}
	return pt
}

// Build renders the report HTML.
func Build(d Data) (string, error) {
	rd := reportData{
		Title:        "Product Sandbox Report",
		ScenarioName: d.ScenarioName,
		Generated:    d.GeneratedAt.Format("2006-01-02 15:04"),
		Params:       d.Params,
		Metrics:      d.Metrics,
		ABApplicable: d.AB.Applicable(),
		AB:           d.AB,
		Tables: []pivotTable{
			pivot("Cumulative LTV per cohort member", d.LTV, "%.2f"),
			pivot("Retention % of month-0 payers", d.Retention, "%.1f"),
		},
	}
	if rd.ABApplicable {
		if d.AB.Significant {
			rd.ABVerdict = "Statistically significant (α=0.05)"
		} else {
			rd.ABVerdict = "Not significant (α=0.05)"
		}
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, rd); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}{{if .ScenarioName}}: {{.ScenarioName}}{{end}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #e6edf3; background: #0d1117; }
  h1 { color: #58a6ff; font-size: 1.8rem; }
  h2 { color: #8b949e; margin-top: 2.5rem; font-size: 1.25rem; }
  table { border-collapse: collapse; width: 100%; margin: 0.5rem 0; }
  th, td { border: 1px solid #30363d; padding: 6px 10px; text-align: left; }
  th { background: #161b22; color: #58a6ff; }
  .meta { color: #8b949e; font-size: 0.9rem; }
  .ab-block { background: #161b22; padding: 1rem; border-radius: 8px; margin: 1rem 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{if .ScenarioName}}Scenario: {{.ScenarioName}} · {{end}}Generated: {{.Generated}}</p>

<h2>Scenario parameters</h2>
<table>
  <tr><th>Parameter</th><th>Value</th></tr>
  <tr><td>Users</td><td>{{.Params.Users}}</td></tr>
  <tr><td>Base conversion, %</td><td>{{.Params.ConversionPct}}</td></tr>
  <tr><td>Ads / Organic / Referral, %</td><td>{{.Params.PctAds}} / {{.Params.PctOrganic}} / {{.Params.PctReferral}}</td></tr>
  <tr><td>Seasonality</td><td>{{if .Params.Seasonality}}on{{else}}off{{end}}</td></tr>
  <tr><td>Payment range</td><td>{{.Params.MinAmount}} – {{.Params.MaxAmount}}</td></tr>
  <tr><td>A/B test</td><td>{{if .Params.ABTest}}on{{else}}off{{end}}</td></tr>
  <tr><td>CAC</td><td>{{.Params.CAC}}</td></tr>
  <tr><td>Seed</td><td>{{.Params.Seed}}</td></tr>
</table>

<h2>Key metrics</h2>
<table>
  <tr><th>Metric</th><th>Value</th></tr>
  <tr><td>Total users</td><td>{{.Metrics.TotalUsers}}</td></tr>
  <tr><td>Paying users</td><td>{{.Metrics.Payers}}</td></tr>
  <tr><td>Conversion rate, %</td><td>{{printf "%.1f" .Metrics.ConversionPct}}</td></tr>
  <tr><td>ARPU</td><td>{{printf "%.2f" .Metrics.ARPU}}</td></tr>
  <tr><td>ARPPU</td><td>{{printf "%.2f" .Metrics.ARPPU}}</td></tr>
  <tr><td>LTV 3 months</td><td>{{printf "%.2f" .Metrics.LTV3}}</td></tr>
  <tr><td>LTV 6 months</td><td>{{printf "%.2f" .Metrics.LTV6}}</td></tr>
  <tr><td>Paying share, %</td><td>{{printf "%.1f" .Metrics.PayingSharePct}}</td></tr>
  <tr><td>Churn rate, %</td><td>{{printf "%.1f" .Metrics.ChurnRatePct}}</td></tr>
</table>
<p class="meta">LTV over 3 months can sit below ARPU since ARPU covers the whole
observation window. Churn is computed among paying users only.</p>

{{if .ABApplicable}}
<h2>A/B test</h2>
<div class="ab-block">
  <table>
    <tr><th>Group</th><th>Users</th><th>Conversion, %</th><th>Revenue</th><th>ARPU</th></tr>
    {{range .AB.Groups}}
    <tr><td>{{.Name}}</td><td>{{.Users}}</td><td>{{printf "%.2f" .ConversionPct}}</td><td>{{printf "%.2f" .Revenue}}</td><td>{{printf "%.2f" .ARPU}}</td></tr>
    {{end}}
  </table>
  <p><strong>p-value (conversion):</strong> {{printf "%.4f" .AB.PValue}}</p>
  <p><strong>p-value (revenue, Welch):</strong> {{printf "%.4f" .AB.RevenuePValue}}</p>
  <p><strong>Uplift:</strong> {{printf "%+.1f" .AB.UpliftPct}}%</p>
  <p><strong>Verdict:</strong> {{.ABVerdict}}</p>
</div>
{{end}}

{{range .Tables}}{{if .Present}}
<h2>{{.Title}}</h2>
<table>
  <tr><th>Cohort</th>{{range .Months}}<th>M{{.}}</th>{{end}}</tr>
  {{range .Rows}}
  <tr><td>{{.Cohort}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
  {{end}}
</table>
{{end}}{{end}}

</body>
</html>
`))
