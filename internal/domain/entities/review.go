package entities

import "time"

// Review represents a customer review of a sauna, tied to one booking
type Review struct {
	ID        string    `json:"id" db:"id"`
	SaunaID   string    `json:"sauna_id" db:"sauna_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewView adds the reviewer's display name
type ReviewView struct {
	Review
	UserName string `json:"user_name"`
}

// ReviewSummary aggregates the ratings of one sauna
type ReviewSummary struct {
	AverageRating      float64     `json:"average_rating"`
	ReviewCount        int         `json:"review_count"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}
