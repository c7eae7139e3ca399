package domain

import (
	"math"
	"sort"
	"time"
)

// Display buckets for the coupon list, ascending priority.
const (
	rankActive      = 0 // in date, cap not reached
	rankNoExpiry    = 1 // no expiration set
	rankCapReached  = 2 // in date, cap reached
	rankExpired     = 3
	rankUnreachable = 9 // default, should not occur on well-formed rows
)

// RankedCoupon pairs a coupon with its derived list-view metrics.
type RankedCoupon struct {
	Coupon
	SortPriority int `json:"sortPriority"`
	UsageRate    int `json:"usageRate"`
}

// SortPriority derives the display bucket for one coupon as of today.
func SortPriority(c *Coupon, today time.Time) int {
	e := Evaluate(c, today)
	switch {
	case !e.IsExpired && c.ExpirationDate != nil && !e.IsCapReached:
		return rankActive
	case c.ExpirationDate == nil:
		return rankNoExpiry
	case !e.IsExpired && e.IsCapReached:
		return rankCapReached
	case e.IsExpired:
		return rankExpired
	}
	return rankUnreachable
}

// UsageRate is the redeemed share in whole percent, ties rounded to the
// nearest even value. A coupon with no issued codes reports 0, not a
// division error.
func UsageRate(c *Coupon) int {
	if c.IssuedCount <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(c.RedeemedCount) / float64(c.IssuedCount) * 100))
}

// RankCoupons orders a store's coupons for the list view: bucket first,
// then expiration date descending within the bucket. The sort is stable so
// rows without a meaningful secondary key keep their fetch order.
func RankCoupons(coupons []Coupon, today time.Time) []RankedCoupon {
	ranked := make([]RankedCoupon, len(coupons))
	for i := range coupons {
		ranked[i] = RankedCoupon{
			Coupon:       coupons[i],
			SortPriority: SortPriority(&coupons[i], today),
			UsageRate:    UsageRate(&coupons[i]),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SortPriority != ranked[j].SortPriority {
			return ranked[i].SortPriority < ranked[j].SortPriority
		}
		di, dj := ranked[i].ExpirationDate, ranked[j].ExpirationDate
		if di == nil || dj == nil {
			return false
		}
		return dj.Before(*di)
	})
	return ranked
}
