package pricing

import "fmt"

// ResolveQuantity picks the quantity for a part. When the user asks for the
// full series and the part has one, the series size wins; otherwise entered
// must be positive.
func ResolveQuantity(seriesQty int, useFullSeries bool, entered int) (int, error) {
	if useFullSeries && seriesQty > 0 {
		return seriesQty, nil
	}
	if entered <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, entered)
	}
	return entered, nil
}
