package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var stdout io.Writer = os.Stdout

// newTable 공통 표 스타일
func newTable(title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.Style().Title.Align = text.AlignCenter
	if title != "" {
		t.SetTitle(title)
	}
	if header != nil {
		t.AppendHeader(header)
	}
	return t
}

// keyValues 2열 (항목, 값) 표
func keyValues(title string, rows [][2]string) {
	t := newTable(title, nil)
	for _, r := range rows {
		t.AppendRow(table.Row{r[0], r[1]})
	}
	t.Render()
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// opt nil이면 "-"
func opt(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "-"
}

func withCommas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
