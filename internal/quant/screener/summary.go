package screener

import "github.com/wonny/quantdiag/internal/domain/market"

// Summary 스크리너 요약 (각 스크리너 상위 N개)
// *Count는 잘린 뒤 표시된 종목 수, *Total은 조건을 통과한 전체 종목 수다.
type Summary struct {
	MagicFormula      []MagicFormulaResult `json:"magic_formula"`
	MagicFormulaCount int                  `json:"magic_formula_count"`
	MagicFormulaTotal int                  `json:"magic_formula_total"`
	PEG               []PEGResult          `json:"peg"`
	PEGCount          int                  `json:"peg_count"`
	PEGTotal          int                  `json:"peg_total"`
	Turnaround        []TurnaroundResult   `json:"turnaround"`
	TurnaroundCount   int                  `json:"turnaround_count"`
	TurnaroundTotal   int                  `json:"turnaround_total"`
}

// Summarize 설정의 파라미터로 세 스크리너를 실행하고 상위 SummaryLimit개씩 모은다.
// snapshots는 종목별 최근 두 기간 이상을 포함해야 턴어라운드가 계산된다.
func Summarize(snapshots []market.FinancialSnapshot, cfg Config) Summary {
	mf := cfg.MagicFormula
	mf.Limit = cfg.SummaryLimit
	pg := cfg.PEG
	pg.Limit = cfg.SummaryLimit
	ta := cfg.Turnaround
	ta.Limit = cfg.SummaryLimit

	magic := MagicFormula(snapshots, mf)
	peg := PEG(snapshots, pg)
	turn := Turnaround(snapshots, ta)

	return Summary{
		MagicFormula:      magic.Items,
		MagicFormulaCount: len(magic.Items),
		MagicFormulaTotal: magic.Total,
		PEG:               peg.Items,
		PEGCount:          len(peg.Items),
		PEGTotal:          peg.Total,
		Turnaround:        turn.Items,
		TurnaroundCount:   len(turn.Items),
		TurnaroundTotal:   turn.Total,
	}
}
