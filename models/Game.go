package models

// Game is a row of the relational game table.
type Game struct {
	GID   int64  `gorm:"column:gid;primaryKey" json:"-"`
	Name  string `gorm:"column:name" json:"name"`
	Year  int    `gorm:"column:year" json:"year"`
	URL   string `gorm:"column:url" json:"url"`
	Image string `gorm:"column:image" json:"image"`
}

func (Game) TableName() string {
	return "game"
}

// GameResponse is the body of a successful GET /game/:id.
type GameResponse struct {
	Name          string        `json:"name"`
	Year          int           `json:"year"`
	URL           string        `json:"url"`
	Image         string        `json:"image"`
	Reviews       []interface{} `json:"reviews"`
	AverageRating *float64      `json:"average_rating"`
}

// NewGameResponse merges a game row with its review summary. A nil summary
// yields an empty review list and a null average.
func NewGameResponse(game Game, summary *ReviewSummary) GameResponse {
	resp := GameResponse{
		Name:    game.Name,
		Year:    game.Year,
		URL:     game.URL,
		Image:   game.Image,
		Reviews: []interface{}{},
	}
	if summary != nil {
		if summary.CommentIDs != nil {
			resp.Reviews = summary.CommentIDs
		}
		resp.AverageRating = summary.AvgRating
	}
	return resp
}

// StatusResponse is the body of every non-200 response.
type StatusResponse struct {
	Status string `json:"status"`
}
