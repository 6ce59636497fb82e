package stats

import (
	"taifex-settlement-lab/internal/domain"
)

// Dimension names a trade attribute the ledger can be partitioned on.
type Dimension string

const (
	DimensionTrend       Dimension = "trend"
	DimensionPriorCandle Dimension = "prior_candle"
	DimensionGap         Dimension = "gap"
	DimensionEventKind   Dimension = "event_kind"
)

// Segment partitions a ledger along one dimension and aggregates each
// bucket separately. Each bucket's event rate uses the bucket size as
// its own candidate count, so a fully traded bucket reads 100.
func Segment(ledger domain.Ledger, dim Dimension) map[string]Performance {
	buckets := make(map[string]domain.Ledger)
	for _, rec := range ledger {
		key := bucketKey(rec, dim)
		buckets[key] = append(buckets[key], rec)
	}

	out := make(map[string]Performance, len(buckets))
	for key, slice := range buckets {
		out[key] = ComputePerformance(slice, len(slice))
	}
	return out
}

func bucketKey(rec *domain.TradeRecord, dim Dimension) string {
	switch dim {
	case DimensionTrend:
		switch {
		case rec.TrendIndicator > 0:
			return "up"
		case rec.TrendIndicator < 0:
			return "down"
		default:
			return "flat"
		}
	case DimensionPriorCandle:
		if rec.PriorCandleBullish {
			return "bullish"
		}
		return "bearish"
	case DimensionGap:
		if rec.GappedUp {
			return "gap_up"
		}
		return "gap_down"
	case DimensionEventKind:
		return string(rec.EventKind)
	default:
		return "all"
	}
}
