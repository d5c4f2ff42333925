package ranking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rankingCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "zroom_ranking_cache_lookups_total",
	Help: "Ranking cache lookups by result",
}, []string{"result"})

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
