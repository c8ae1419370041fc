package models

import "time"

type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Address     string     `json:"address"`
	Tags        []Tag      `json:"tags"`
}

type Tag struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	CityID *int64 `json:"city,omitempty"`
}

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Competence struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
