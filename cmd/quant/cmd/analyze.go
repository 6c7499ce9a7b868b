package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/wonny/quantdiag/internal/quant/regime"
	"github.com/wonny/quantdiag/internal/quant/squeeze"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

var (
	scanMinScore int
	scanLimit    int
	historyDays  int
)

// ========================================
// indicators
// ========================================

var indicatorsCmd = &cobra.Command{
	Use:   "indicators <code>",
	Short: "기술적 지표 (이동평균, RSI, MFI, MACD, 볼린저)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		ind, err := e.analysis().Indicators(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(ind)
		}
		renderIndicators(ind)
		return nil
	},
}

func renderIndicators(ind *technical.Indicators) {
	keyValues(fmt.Sprintf("%s %s", ind.StockCode, ind.AsOf.Format(time.DateOnly)), [][2]string{
		{"Close", strconv.FormatFloat(ind.Close, 'f', 0, 64)},
		{"Bars", strconv.Itoa(ind.DataCount)},
		{"MA5 / MA20", opt(ind.MA5, 1) + " / " + opt(ind.MA20, 1)},
		{"MA60 / MA120", opt(ind.MA60, 1) + " / " + opt(ind.MA120, 1)},
		{"Disparity 5/20/60", opt(ind.Disparity5, 1) + " / " + opt(ind.Disparity20, 1) + " / " + opt(ind.Disparity60, 1)},
		{"RSI14", opt(ind.RSI14, 1) + " " + string(ind.RSIStatus)},
		{"MFI", opt(ind.MFI, 1) + " " + string(ind.MFIStatus)},
		{"MACD / Signal / Hist", opt(ind.MACD, 2) + " / " + opt(ind.MACDSignal, 2) + " / " + opt(ind.MACDHistogram, 2)},
		{"Bollinger", opt(ind.BollingerLower, 0) + " ~ " + opt(ind.BollingerUpper, 0) + " (bw " + opt(ind.BollingerBandWidth, 2) + ")"},
		{"Squeeze / Breakout", yesNo(ind.IsSqueeze) + " / " + yesNo(ind.IsBreakout)},
		{"Golden / Dead cross", yesNo(ind.IsGoldenCross) + " / " + yesNo(ind.IsDeadCross)},
		{"Arranged up / down", yesNo(ind.IsArrangedUp) + " / " + yesNo(ind.IsArrangedDown)},
		{"Signal", fmt.Sprintf("%s (%d) %s", ind.OverallSignal, ind.BuySignalStrength, ind.SignalDescription)},
	})
}

// ========================================
// diagnose
// ========================================

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <code>",
	Short: "재무 + 수급 + 기술 종합 진단",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		d, err := e.analysis().Diagnose(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(d)
		}

		rows := [][2]string{
			{"Financial", optInt(d.FinancialScore)},
			{"Supply/Demand", optInt(d.SupplyDemandScore)},
			{"Technical", optInt(d.TechnicalScore)},
			{"Overall", optInt(d.OverallScore)},
			{"Verdict", strings.TrimSpace(d.VerdictLabel + " " + string(d.Verdict))},
			{"", d.VerdictDescription},
		}
		if f := d.Financial; f != nil {
			rows = append(rows,
				[2]string{"Report date", f.ReportDate.Format(time.DateOnly)},
				[2]string{"Op. margin / ROE / Debt", opt(f.OperatingMargin, 1) + " / " + opt(f.ROE, 1) + " / " + opt(f.DebtRatio, 1)},
			)
		}
		if s := d.SupplyDemand; s != nil {
			rows = append(rows, [2]string{"Foreign / Inst net 5d", withCommas(s.ForeignNet5) + " / " + withCommas(s.InstNet5)})
		}
		keyValues(d.StockCode+" diagnosis", rows)

		for _, p := range d.Positives {
			fmt.Fprintf(stdout, "  + %s\n", p)
		}
		for _, w := range d.Warnings {
			fmt.Fprintf(stdout, "  ! %s\n", w)
		}
		return nil
	},
}

// ========================================
// timing
// ========================================

var timingCmd = &cobra.Command{
	Use:   "timing",
	Short: "시장 타이밍 (ADR 20일)",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.analysis()
		if historyDays > 0 {
			points, err := svc.ADRHistory(cmd.Context(), historyDays)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(points)
			}
			t := newTable("ADR history", table.Row{"Date", "KOSPI", "KOSDAQ", "Combined"})
			for _, p := range points {
				t.AppendRow(table.Row{p.Date.Format(time.DateOnly), opt(p.KOSPIADR, 2), opt(p.KOSDAQADR, 2), opt(p.CombinedADR, 2)})
			}
			t.Render()
			return nil
		}

		timing, err := svc.Timing(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(timing)
		}
		renderTiming(timing)
		return nil
	},
}

func renderTiming(tm *regime.Timing) {
	t := newTable("Market timing "+tm.AnalysisDate.Format(time.DateOnly),
		table.Row{"Market", "Adv", "Dec", "Daily ratio", "ADR20", "Condition"})
	for _, s := range []*regime.MarketStatus{tm.KOSPI, tm.KOSDAQ} {
		if s == nil {
			continue
		}
		t.AppendRow(table.Row{s.Market, s.Advancing, s.Declining, opt(s.DailyRatio, 2), opt(s.ADR20, 2), s.Condition.Label()})
	}
	t.AppendFooter(table.Row{"Combined", "", "", "", opt(tm.CombinedADR, 2), tm.ConditionText})
	t.Render()

	fmt.Fprintln(stdout, tm.Diagnosis)
	fmt.Fprintln(stdout, tm.Strategy)
}

// ========================================
// squeeze
// ========================================

var squeezeCmd = &cobra.Command{
	Use:   "squeeze <code>",
	Short: "숏스퀴즈 점수",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		a, err := e.analysis().Squeeze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(a)
		}

		keyValues(fmt.Sprintf("%s squeeze %d (%s)", a.StockCode, a.SqueezeScore, a.SqueezeLevel), [][2]string{
			{"Loan balance", withCommas(a.CurrentLoanBalance) + " (" + pct(a.LoanBalanceRatio) + ")"},
			{"Loan change 5d", opt(a.LoanBalanceChange5Days, 2)},
			{"Short ratio", pct(a.ShortRatio)},
			{"Foreign net 3d", withCommas(a.ForeignNetBuy3Days)},
			{"Price change 5d", opt(a.PriceChange5Days, 2)},
			{"Components", fmt.Sprintf("loan %.0f / foreign %.0f / trend %.0f / short %.0f",
				a.Components.Loan, a.Components.Foreign, a.Components.Trend, a.Components.ShortRatio)},
			{"Signal", a.SignalDescription},
		})
		return nil
	},
}

var squeezeScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "숏스퀴즈 후보 스캔",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.analysis()
		minScore := scanMinScore
		if minScore < 0 {
			minScore = svc.SqueezeConfig().ScanMinScore
		}

		list, err := svc.SqueezeCandidates(cmd.Context(), minScore, scanLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(list)
		}
		renderCandidates(list)
		return nil
	},
}

func renderCandidates(list []*squeeze.Assessment) {
	t := newTable("Short squeeze candidates", table.Row{"#", "Code", "Score", "Level", "Loan ratio", "Short ratio", "Foreign 3d", "Signal"})
	for i, a := range list {
		t.AppendRow(table.Row{
			i + 1, a.StockCode, a.SqueezeScore, a.SqueezeLevel,
			pct(a.LoanBalanceRatio), pct(a.ShortRatio), withCommas(a.ForeignNetBuy3Days), a.SignalDescription,
		})
	}
	t.Render()
}

func init() {
	timingCmd.Flags().IntVar(&historyDays, "history", 0, "print ADR history for the last N trading days")

	squeezeScanCmd.Flags().IntVar(&scanMinScore, "min-score", -1, "minimum squeeze score (default from config)")
	squeezeScanCmd.Flags().IntVar(&scanLimit, "limit", 20, "max candidates")
	squeezeCmd.AddCommand(squeezeScanCmd)
}
