package models

import "time"

type UserProfile struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FullName      *string   `json:"full_name"`
	Age           *int      `json:"age"`
	Gender        *string   `json:"gender"`
	HeightCM      *float64  `json:"height_cm"`
	WeightKG      *float64  `json:"weight_kg"`
	ActivityLevel *string   `json:"activity_level"`
	Goal          *string   `json:"goal"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
