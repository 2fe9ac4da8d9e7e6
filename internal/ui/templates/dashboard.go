package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"autosales-dashboard/internal/models"
)

const (
	Title           = "Automobile Statistics Dashboard"
	OutputElementID = "output-container"
	DefaultYear     = 2006
)

type pageData struct {
	Title       string
	Modes       []models.StatisticsMode
	DefaultMode models.StatisticsMode
	Years       []int
	DefaultYear int
	Grid        template.HTML
}

// Dashboard renders the full page: the two dropdowns and an empty chart grid
// that the SSE endpoint fills in once datastar initializes.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		grid, err := templ.ToGoHTML(ctx, ChartGrid(nil))
		if err != nil {
			return err
		}
		return pageTemplate.Execute(w, pageData{
			Title:       Title,
			Modes:       models.StatisticsModes,
			DefaultMode: models.ModeYearly,
			Years:       models.Years(),
			DefaultYear: DefaultYear,
			Grid:        grid,
		})
	})
}

// ChartGrid renders chart placeholders two per row. Chart.js draws into
// the canvases from the charts signal.
func ChartGrid(charts []models.Chart) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var rows [][]models.Chart
		for i := 0; i < len(charts); i += 2 {
			rows = append(rows, charts[i:min(i+2, len(charts))])
		}
		return gridTemplate.Execute(w, struct {
			ID   string
			Rows [][]models.Chart
		}{ID: OutputElementID, Rows: rows})
	})
}

var gridTemplate = template.Must(template.New("grid").Parse(`<div id="{{.ID}}" class="chart-grid" data-effect="window.renderCharts && window.renderCharts($charts)">
{{- range .Rows}}
<div class="chart-item">
{{- range .}}
<figure class="chart" data-kind="{{.Kind}}">
<figcaption>{{.Title}}</figcaption>
<canvas id="chart-{{.ID}}"></canvas>
</figure>
{{- end}}
</div>
{{- end}}
</div>`))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; background: #1c1b1a; color: #fffcf0; margin: 0 2rem; }
h1 { text-align: center; color: #ffffff; font-weight: bold; }
select { padding: .4rem; min-width: 16rem; }
select:disabled { opacity: .5; }
.controls { display: flex; gap: 2rem; align-items: end; margin-bottom: 1.5rem; }
.chart-grid { display: flex; flex-direction: column; gap: 1rem; }
.chart-item { display: flex; gap: 1rem; }
.chart { flex: 1; background: #282726; border-radius: 6px; padding: 1rem; margin: 0; }
figcaption { font-weight: bold; margin-bottom: .5rem; }
</style>
</head>
<body data-signals='{"statType": "{{.DefaultMode}}", "selectYear": {{.DefaultYear}}, "yearDisabled": false, "charts": []}'
      data-init="@get('/sse/dashboard')">
<h1>{{.Title}}</h1>
<div class="controls">
<div>
<label for="stat-type">Select Statistics:</label><br>
<select id="stat-type" data-bind:stat-type data-on:change="@get('/sse/dashboard')">
{{- range .Modes}}
<option value="{{.}}"{{if eq . $.DefaultMode}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
</div>
<div>
<label for="select-year">Select Year:</label><br>
<select id="select-year" data-bind:select-year data-attr:disabled="$yearDisabled" data-on:change="@get('/sse/dashboard')">
{{- range .Years}}
<option value="{{.}}"{{if eq . $.DefaultYear}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
</div>
</div>
{{.Grid}}
<script>
window.chartInstances = window.chartInstances || {};
window.renderCharts = function (charts) {
  (charts || []).forEach(function (chart) {
    var canvas = document.getElementById("chart-" + chart.id);
    if (!canvas) { return; }
    if (window.chartInstances[chart.id]) { window.chartInstances[chart.id].destroy(); }

    var labels = [];
    var series = {};
    chart.points.forEach(function (p) {
      if (labels.indexOf(p.label) < 0) { labels.push(p.label); }
      var name = p.series || chart.y || chart.values;
      series[name] = series[name] || {};
      series[name][p.label] = p.value;
    });
    var datasets = Object.keys(series).map(function (name) {
      return { label: name, data: labels.map(function (l) { return name in series && l in series[name] ? series[name][l] : null; }) };
    });

    window.chartInstances[chart.id] = new Chart(canvas, {
      type: chart.kind,
      data: { labels: labels, datasets: datasets },
      options: { plugins: { legend: { display: chart.kind === "pie" || !!chart.color } } }
    });
  });
};
</script>
</body>
</html>
`))
