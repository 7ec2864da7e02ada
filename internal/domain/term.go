package domain

import "time"

type Term struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Year      int32     `json:"year"`
	Period    string    `json:"period"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
