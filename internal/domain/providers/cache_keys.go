package providers

import "fmt"

// Cache TTLs (in seconds)
const (
	SaunaCacheTTL        = 300
	AvailabilityCacheTTL = 60
)

// SaunaCacheKey is the cache key of one sauna's detail
func SaunaCacheKey(saunaID string) string {
	return fmt.Sprintf("sauna:%s", saunaID)
}

// AvailabilityCacheKey is the cache key of one sauna's grid on a date
func AvailabilityCacheKey(saunaID, date string) string {
	return fmt.Sprintf("availability:%s:%s", saunaID, date)
}

// AvailabilityCachePattern matches every cached grid of one sauna
func AvailabilityCachePattern(saunaID string) string {
	return fmt.Sprintf("availability:%s:*", saunaID)
}
