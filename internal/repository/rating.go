package repository

import "github.com/shopspring/decimal"

// ratingScale is the number of decimal places a pokemon rating carries.
const ratingScale = 2

// averageRating computes total/count rounded half away from zero to
// ratingScale places. count <= 0 yields zero.
func averageRating(total, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(count)).Round(ratingScale)
}
