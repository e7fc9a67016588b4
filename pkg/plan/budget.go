package plan

import (
	"sort"

	"github.com/larjgit/edinburgh-finds/pkg/model"
)

// costBenefitEpsilon avoids a division by zero for free connectors while
// keeping the ranking stable.
const costBenefitEpsilon = 0.0001

// filterByBudget ranks connectors by trust_level/(cost_per_call+ε) descending
// and greedily keeps connectors while the running total stays within
// budgetUSD, always retaining the top-ranked connector of each phase even
// when it exceeds that total. A non-positive budget is treated as unlimited
// (spec §6 default budget_usd: 0 means "no cap").
func filterByBudget(specs []model.ConnectorSpec, budgetUSD float64) []model.ConnectorSpec {
	ranked := make([]model.ConnectorSpec, len(specs))
	copy(ranked, specs)
	sort.SliceStable(ranked, func(i, j int) bool {
		scoreI := float64(ranked[i].TrustLevel) / (ranked[i].CostPerCallUSD + costBenefitEpsilon)
		scoreJ := float64(ranked[j].TrustLevel) / (ranked[j].CostPerCallUSD + costBenefitEpsilon)
		if scoreI != scoreJ {
			return scoreI > scoreJ
		}
		return ranked[i].Name < ranked[j].Name
	})

	if budgetUSD <= 0 {
		return ranked
	}

	var kept []model.ConnectorSpec
	var spent float64
	keptPhase := make(map[model.Phase]bool)
	for _, spec := range ranked {
		if spent+spec.CostPerCallUSD > budgetUSD && keptPhase[spec.Phase] {
			continue
		}
		kept = append(kept, spec)
		keptPhase[spec.Phase] = true
		spent += spec.CostPerCallUSD
	}
	return kept
}

func estimatedBudget(specs []model.ConnectorSpec) float64 {
	var total float64
	for _, s := range specs {
		total += s.CostPerCallUSD
	}
	return total
}
