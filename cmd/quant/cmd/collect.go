package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/wonny/quantdiag/internal/service/collector"
)

var collectDate string

// collectCmd collect 서브커맨드
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "장마감 데이터 수집 (네이버 금융)",
	Long: `네이버 금융에서 일봉, 수급, 공매도, 재무, 등락 종목 수를 수집해 저장합니다.

Examples:
  go run ./cmd/quant collect all                    # 등락 + COLLECTOR_STOCK_CODES 전체
  go run ./cmd/quant collect breadth                # 오늘(KST) 등락 종목 수
  go run ./cmd/quant collect breadth --date 2024-06-03
  go run ./cmd/quant collect stock 005930`,
}

var collectAllCmd = &cobra.Command{
	Use:   "all",
	Short: "등락 종목 수 + 설정된 전 종목 수집",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.collector()
		if err := svc.CollectAll(cmd.Context()); err != nil {
			return err
		}
		st := svc.Status()
		fmt.Fprintf(stdout, "collected %d stocks (%d failed)\n", st.Stocks, st.Failed)
		return nil
	},
}

var collectBreadthCmd = &cobra.Command{
	Use:   "breadth",
	Short: "시장 등락 종목 수 수집 + 타이밍 평가",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.collector()
		date := svc.Today()
		if collectDate != "" {
			if date, err = time.ParseInLocation(time.DateOnly, collectDate, collector.KST); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
		}

		res, err := svc.CollectBreadth(cmd.Context(), date)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		t := newTable("Market breadth "+res.Date.Format(time.DateOnly),
			table.Row{"Market", "Advancing", "Declining", "Unchanged", "Upper", "Lower"})
		for _, b := range res.Markets {
			t.AppendRow(table.Row{b.Market, b.Advancing, b.Declining, b.Unchanged, b.UpperLimit, b.LowerLimit})
		}
		t.Render()

		if res.Timing != nil {
			renderTiming(res.Timing)
		}
		if res.Alert != nil {
			fmt.Fprintf(stdout, "ALERT %s: %s\n", res.Alert.Condition, res.Alert.Strategy)
		}
		return nil
	},
}

var collectStockCmd = &cobra.Command{
	Use:   "stock <code>...",
	Short: "종목별 일봉/수급/공매도/재무 수집",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		svc := e.collector()
		t := newTable("", table.Row{"Code", "Bars", "Flows", "Shorts", "Financials", "Error"})
		var failed []string
		for _, code := range args {
			res, err := svc.CollectStock(cmd.Context(), code)
			if err != nil {
				failed = append(failed, code)
				t.AppendRow(table.Row{code, "", "", "", "", err.Error()})
				continue
			}
			t.AppendRow(table.Row{res.StockCode, res.Bars, res.Flows, res.Shorts, res.Financials, ""})
		}
		t.Render()

		if len(failed) > 0 {
			return fmt.Errorf("collect failed: %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	collectBreadthCmd.Flags().StringVar(&collectDate, "date", "", "trade date YYYY-MM-DD (default today KST)")

	collectCmd.AddCommand(collectAllCmd)
	collectCmd.AddCommand(collectBreadthCmd)
	collectCmd.AddCommand(collectStockCmd)
}
