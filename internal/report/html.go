package report

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/matchlog/internal/matchlog"
	"github.com/verte-zerg/matchlog/internal/model"
	"github.com/verte-zerg/matchlog/internal/stats"
)

// HTMLOptions controls the HTML report layout.
type HTMLOptions struct {
	// GamePrefix is prepended to "-<index>.sgf" in game links.
	GamePrefix string
	// BarScale is the pixel width of a histogram bar holding every game.
	BarScale int
}

type htmlRow struct {
	Label string
	Value string
	Code  bool
}

type htmlBar struct {
	Label string
	Count int
	Width int
	Rest  int
}

type htmlSide struct {
	Name    string
	Score   string
	Wins    string
	Unknown string
	Clamped int
	Bars    []htmlBar
}

type htmlGame struct {
	File         string
	ResultBlack  string
	ResultWhite  string
	Alternated   string
	Duplicate    string
	Length       int
	CPUBlack     string
	CPUWhite     string
	Error        string
	ErrorMessage string
}

type htmlData struct {
	Title    string
	Black    string
	White    string
	Info     []htmlRow
	Sides    []htmlSide
	Scale    int
	Games    []htmlGame
	HasGames bool
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: white; color: black; font-family: sans-serif; }
th { text-align: left; }
table.games td { text-align: center; }
td.bar { background: blue; }
td.rest { background: #cccccc; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<hr>
<small>
<table>
{{- range .Info}}
<tr><th>{{.Label}}:</th><td>{{if .Code}}<tt>{{.Value}}</tt>{{else}}{{.Value}}{{end}}</td></tr>
{{- end}}
</table>
</small>
<hr>
{{- range .Sides}}
<h2>Result [{{.Name}}]</h2>
<table>
<tr><th>Black score[{{.Name}}]:</th><td>{{.Score}}</td></tr>
<tr><th>Black wins[{{.Name}}]:</th><td>{{.Wins}}</td></tr>
<tr><th>Unknown[{{.Name}}]:</th><td>{{.Unknown}}</td></tr>
{{- if .Clamped}}
<tr><th>Outside histogram range[{{.Name}}]:</th><td>{{.Clamped}}</td></tr>
{{- end}}
</table>
<small>
<table cellspacing="1" cellpadding="0">
{{- range .Bars}}
<tr><td align="right">{{.Label}}</td><td><table cellspacing="0" cellpadding="0" width="{{$.Scale}}"><tr><td class="bar" width="{{.Width}}"></td><td class="rest" width="{{.Rest}}">{{.Count}}</td></tr></table></td></tr>
{{- end}}
</table>
</small>
<hr>
{{- end}}
{{- if .HasGames}}
<table class="games" border="1">
<thead>
<tr>
<th>Game</th>
<th>Result [{{.Black}}]</th>
<th>Result [{{.White}}]</th>
<th>Colors exchanged</th>
<th>Duplicate</th>
<th>Length</th>
<th>CpuTime Black</th>
<th>CpuTime White</th>
<th>Error</th>
<th>Error Message</th>
</tr>
</thead>
<tbody>
{{- range .Games}}
<tr><td><a href="{{.File}}">{{.File}}</a></td><td>{{.ResultBlack}}</td><td>{{.ResultWhite}}</td><td>{{.Alternated}}</td><td>{{.Duplicate}}</td><td>{{.Length}}</td><td>{{.CPUBlack}}</td><td>{{.CPUWhite}}</td><td>{{.Error}}</td><td>{{.ErrorMessage}}</td></tr>
{{- end}}
</tbody>
</table>
<hr>
{{- end}}
</body>
</html>
`))

// WriteHTML renders the full report document.
func WriteHTML(w io.Writer, a *matchlog.Analysis, opts HTMLOptions) error {
	if err := htmlTemplate.Execute(w, buildHTMLData(a, opts)); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

// GamePrefix returns the game link prefix for a report written to htmlPath:
// its base name without the ".html" extension.
func GamePrefix(htmlPath string) string {
	return strings.TrimSuffix(filepath.Base(htmlPath), htmlExt)
}

func buildHTMLData(a *matchlog.Analysis, opts HTMLOptions) htmlData {
	meta := a.Metadata
	scale := opts.BarScale
	if scale <= 0 {
		scale = matchlog.DefaultBarScale
	}
	prefix := opts.GamePrefix
	if prefix == "" {
		prefix = "game"
	}
	data := htmlData{
		Title: meta.Black + " - " + meta.White,
		Black: meta.Black,
		White: meta.White,
		Scale: scale,
		Info: []htmlRow{
			{Label: "Black", Value: meta.Black},
			{Label: "White", Value: meta.White},
			{Label: "Size", Value: meta.Size},
			{Label: "Komi", Value: meta.Komi},
			{Label: "Date", Value: meta.Date},
			{Label: "Host", Value: meta.Host},
			{Label: "Black command", Value: meta.BlackCommand, Code: true},
			{Label: "White command", Value: meta.WhiteCommand, Code: true},
			{Label: "Games", Value: strconv.Itoa(a.Games)},
			{Label: "Errors", Value: strconv.Itoa(a.Errors)},
			{Label: "Duplicates", Value: strconv.Itoa(a.Duplicates)},
			{Label: "Games used", Value: strconv.Itoa(a.Used)},
			{Label: "Game length", Value: withError(a.Length.Mean(), a.Length.StdError())},
			{Label: "CpuTime Black", Value: withError(a.CPUBlack.Mean(), a.CPUBlack.StdError())},
			{Label: "CpuTime White", Value: withError(a.CPUWhite.Mean(), a.CPUWhite.StdError())},
		},
		Sides: []htmlSide{
			buildHTMLSide(meta.Black, &a.Black, a.Used, scale),
			buildHTMLSide(meta.White, &a.White, a.Used, scale),
		},
	}
	data.Games = make([]htmlGame, 0, len(a.Records))
	for _, rec := range a.Records {
		data.Games = append(data.Games, buildHTMLGame(prefix, rec))
	}
	data.HasGames = len(data.Games) > 0
	return data
}

func buildHTMLSide(name string, side *matchlog.Side, used, scale int) htmlSide {
	out := htmlSide{
		Name:    name,
		Score:   withError(side.Margin.Mean(), side.Margin.StdError()),
		Wins:    formatPercent(side.Win.Mean()) + " (±" + formatOneDecimal(side.Win.StdError()*100) + ")",
		Unknown: formatPercent(side.Unknown.Mean()),
		Clamped: side.Margin.Clamped(),
	}
	for _, bar := range side.Margin.Bars(used, scale) {
		out.Bars = append(out.Bars, htmlBar{
			Label: stats.FormatBucket(bar.Start),
			Count: bar.Count,
			Width: bar.Width,
			Rest:  scale - bar.Width,
		})
	}
	return out
}

func buildHTMLGame(prefix string, rec model.GameRecord) htmlGame {
	g := htmlGame{
		File:         fmt.Sprintf("%s-%d.sgf", prefix, rec.GameIndex),
		ResultBlack:  rec.ResultBlack,
		ResultWhite:  rec.ResultWhite,
		Alternated:   boolDigit(rec.Alternated),
		Duplicate:    rec.DuplicateOf,
		Length:       rec.Length,
		CPUBlack:     formatCPU(rec.CPUBlack),
		CPUWhite:     formatCPU(rec.CPUWhite),
		ErrorMessage: rec.ErrorMessage,
	}
	if rec.Error {
		g.Error = "1"
	}
	return g
}

func withError(mean, stdErr float64) string {
	return formatOneDecimal(mean) + " (±" + formatOneDecimal(stdErr) + ")"
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatPercent(rate float64) string {
	return formatOneDecimal(rate*100) + "%"
}

func formatCPU(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
