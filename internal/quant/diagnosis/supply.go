package diagnosis

import (
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/series"
)

// SupplyDemand 수급 분석 (최근 FlowDays 거래일)
type SupplyDemand struct {
	Days            int   `json:"days"`
	ForeignBuyDays  int   `json:"foreign_buy_days"`
	InstBuyDays     int   `json:"inst_buy_days"`
	ForeignNet5     int64 `json:"foreign_net_5days"`
	InstNet5        int64 `json:"inst_net_5days"`
	IsForeignBuying bool  `json:"is_foreign_buying"`
	IsInstBuying    bool  `json:"is_inst_buying"`
	IsBothBuying    bool  `json:"is_both_buying"`
	IsBothSelling   bool  `json:"is_both_selling"`
	Score           int   `json:"score"`
}

// supplyDemand 수급 점수 (수급 이력 없으면 nil)
func (a *Aggregator) supplyDemand(flows []market.InvestorFlow) *SupplyDemand {
	if len(flows) == 0 {
		return nil
	}
	recent := series.Last(flows, a.cfg.FlowDays)

	sd := &SupplyDemand{Days: len(recent)}
	for _, f := range recent {
		if f.ForeignNet() > 0 {
			sd.ForeignBuyDays++
		}
		if f.InstNet() > 0 {
			sd.InstBuyDays++
		}
		sd.ForeignNet5 += f.ForeignNet()
		sd.InstNet5 += f.InstNet()
	}

	sd.IsForeignBuying = sd.ForeignBuyDays >= a.cfg.MajorityDays
	sd.IsInstBuying = sd.InstBuyDays >= a.cfg.MajorityDays
	sd.IsBothBuying = sd.IsForeignBuying && sd.IsInstBuying
	sd.IsBothSelling = sd.ForeignBuyDays < a.cfg.MajorityDays && sd.InstBuyDays < a.cfg.MajorityDays &&
		sd.ForeignNet5 < 0 && sd.InstNet5 < 0

	score := 50
	score += investorPoints(sd.IsForeignBuying, sd.ForeignBuyDays)
	score += investorPoints(sd.IsInstBuying, sd.InstBuyDays)
	if sd.IsBothBuying {
		score += 10
	}
	if sd.IsBothSelling {
		score -= 10
	}
	sd.Score = int(series.Clamp(float64(score), 0, 100))
	return sd
}

func investorPoints(buying bool, buyDays int) int {
	if buying {
		return 15 + 3*buyDays
	}
	return -10
}
