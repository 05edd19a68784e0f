package ev

import (
	"sort"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

var categoryRank = map[models.SlipCategory]int{
	models.CategoryPreferred:   0,
	models.CategoryNormal:      1,
	models.CategoryDiscouraged: 2,
}

// Recommender maps favored probabilities to qualifying slip types against a
// versioned break-even table.
type Recommender struct {
	table models.SlipTable
}

// NewRecommender creates a recommender for the given table. An empty table
// falls back to the built-in default.
func NewRecommender(table models.SlipTable) *Recommender {
	if len(table.Types) == 0 {
		table = models.DefaultSlipTable()
	}
	return &Recommender{table: table}
}

// TableVersion returns the version tag of the active break-even table.
func (r *Recommender) TableVersion() string {
	return r.table.Version
}

// Recommend returns every slip type whose break-even the favored probability
// meets. The comparison is boundary inclusive and uses the full-precision
// probability; rounding is display-only. Results are ordered preferred >
// normal > discouraged, then by ascending break-even, and each entry carries
// its discouraged flag independent of qualification. Empty means skip.
func (r *Recommender) Recommend(favoredProb float64) models.SlipRecommendation {
	var recs models.SlipRecommendation
	for _, st := range r.table.Types {
		if favoredProb < st.BreakEven {
			continue
		}
		recs = append(recs, models.SlipQualification{
			Name:        st.Name,
			BreakEven:   st.BreakEven,
			Category:    st.Category,
			Payout:      st.Payout,
			MinUnits:    st.MinUnits,
			MaxUnits:    st.MaxUnits,
			Discouraged: st.Category == models.CategoryDiscouraged,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if categoryRank[recs[i].Category] != categoryRank[recs[j].Category] {
			return categoryRank[recs[i].Category] < categoryRank[recs[j].Category]
		}
		return recs[i].BreakEven < recs[j].BreakEven
	})
	return recs
}
