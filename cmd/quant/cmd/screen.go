package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/wonny/quantdiag/internal/quant/screener"
)

var (
	screenLimit   int
	minMarketCap  string
	maxPEG        float64
	minEPSGrowth  float64
	minGrowthRate float64
)

// screenCmd screen 서브커맨드
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "재무 스크리너",
	Long: `최신 재무 스냅샷으로 종목을 선별합니다.

Examples:
  go run ./cmd/quant screen magic --min-market-cap 100000000000
  go run ./cmd/quant screen peg --max-peg 0.8
  go run ./cmd/quant screen turnaround --min-growth 30
  go run ./cmd/quant screen summary`,
}

var screenMagicCmd = &cobra.Command{
	Use:   "magic",
	Short: "마법의 공식 (영업이익률 + ROE + PER 순위)",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.analysis()
		p := svc.ScreenerConfig().MagicFormula
		if cmd.Flags().Changed("limit") {
			p.Limit = screenLimit
		}
		if minMarketCap != "" {
			if p.MinMarketCap, err = decimal.NewFromString(minMarketCap); err != nil {
				return fmt.Errorf("invalid --min-market-cap: %w", err)
			}
		}

		res, err := svc.MagicFormula(cmd.Context(), p)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		t := newTable("Magic formula", table.Row{"Rank", "Code", "Name", "Op. margin", "ROE", "PER", "Score"})
		for _, r := range res.Items {
			t.AppendRow(table.Row{r.Rank, r.StockCode, r.StockName, pct(r.OperatingMargin), pct(r.ROE), fmt.Sprintf("%.2f", r.PER), r.Score})
		}
		t.Render()
		printExclusions(res.Total, res.Excluded)
		return nil
	},
}

var screenPEGCmd = &cobra.Command{
	Use:   "peg",
	Short: "PEG 저평가 성장주",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.analysis()
		p := svc.ScreenerConfig().PEG
		if cmd.Flags().Changed("limit") {
			p.Limit = screenLimit
		}
		if cmd.Flags().Changed("max-peg") {
			if maxPEG <= 0 {
				return fmt.Errorf("--max-peg must be positive")
			}
			p.MaxPEG = maxPEG
		}
		if cmd.Flags().Changed("min-eps-growth") {
			p.MinEPSGrowth = minEPSGrowth
		}

		res, err := svc.PEG(cmd.Context(), p)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		t := newTable("PEG", table.Row{"Code", "Name", "PER", "EPS growth", "PEG"})
		for _, r := range res.Items {
			t.AppendRow(table.Row{r.StockCode, r.StockName, fmt.Sprintf("%.2f", r.PER), pct(r.EPSGrowth), fmt.Sprintf("%.2f", r.PEG)})
		}
		t.Render()
		printExclusions(res.Total, res.Excluded)
		return nil
	},
}

var screenTurnaroundCmd = &cobra.Command{
	Use:   "turnaround",
	Short: "흑자전환 / 이익 급증",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.analysis()
		p := svc.ScreenerConfig().Turnaround
		if cmd.Flags().Changed("limit") {
			p.Limit = screenLimit
		}
		if cmd.Flags().Changed("min-growth") {
			p.MinGrowthRate = minGrowthRate
		}

		res, err := svc.Turnaround(cmd.Context(), p)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		t := newTable("Turnaround", table.Row{"Code", "Name", "Type", "Period", "Prev NI", "Curr NI", "Change"})
		for _, r := range res.Items {
			t.AppendRow(table.Row{
				r.StockCode, r.StockName, r.Type,
				r.PreviousReportDate.Format(time.DateOnly) + " > " + r.CurrentReportDate.Format(time.DateOnly),
				r.PreviousNetIncome.StringFixed(0), r.CurrentNetIncome.StringFixed(0), opt(r.NetIncomeChangeRate, 1),
			})
		}
		t.Render()
		printExclusions(res.Total, res.Excluded)
		return nil
	},
}

var screenSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "세 스크리너 상위 종목 요약",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.analysis().ScreenerSummary(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(s)
		}

		t := newTable("Screener summary", table.Row{"Screener", "Matches", "Shown", "Top"})
		t.AppendRow(table.Row{"Magic formula", s.MagicFormulaTotal, s.MagicFormulaCount, topCodes(s.MagicFormula, func(r screener.MagicFormulaResult) string { return r.StockCode })})
		t.AppendRow(table.Row{"PEG", s.PEGTotal, s.PEGCount, topCodes(s.PEG, func(r screener.PEGResult) string { return r.StockCode })})
		t.AppendRow(table.Row{"Turnaround", s.TurnaroundTotal, s.TurnaroundCount, topCodes(s.Turnaround, func(r screener.TurnaroundResult) string { return r.StockCode })})
		t.Render()
		return nil
	},
}

func topCodes[T any](items []T, code func(T) string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += code(it)
	}
	return out
}

func printExclusions(total int, excluded screener.Exclusions) {
	fmt.Fprintf(stdout, "matched %d\n", total)
	reasons := make([]string, 0, len(excluded))
	for r := range excluded {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(stdout, "  excluded %-24s %d\n", r, excluded[screener.ExclusionReason(r)])
	}
}

func init() {
	screenCmd.PersistentFlags().IntVar(&screenLimit, "limit", 30, "max results")

	screenMagicCmd.Flags().StringVar(&minMarketCap, "min-market-cap", "", "minimum market cap (KRW)")
	screenPEGCmd.Flags().Float64Var(&maxPEG, "max-peg", 1.0, "maximum PEG")
	screenPEGCmd.Flags().Float64Var(&minEPSGrowth, "min-eps-growth", 10, "minimum EPS growth (%)")
	screenTurnaroundCmd.Flags().Float64Var(&minGrowthRate, "min-growth", 50, "minimum net income growth for PROFIT_GROWTH (%)")

	screenCmd.AddCommand(screenMagicCmd)
	screenCmd.AddCommand(screenPEGCmd)
	screenCmd.AddCommand(screenTurnaroundCmd)
	screenCmd.AddCommand(screenSummaryCmd)
}
