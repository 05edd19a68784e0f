package oddsapi

import "time"

// Event is one scheduled game from the odds feed
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// EventOdds is one event with per-bookmaker prop markets attached
type EventOdds struct {
	Event
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one book's markets for an event
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market is one prop market, e.g. player_points
type Market struct {
	Key        string    `json:"key"`
	LastUpdate time.Time `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Outcome is one side of a prop market. Description carries the player name,
// Point the line, Price the American odds.
type Outcome struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int     `json:"price"`
	Point       float64 `json:"point"`
}
