package models

// ReviewSummary is the output of the review aggregation for one game.
// CommentIDs keeps the driver's decoded _id values (usually ObjectIDs).
type ReviewSummary struct {
	GameID     int64         `bson:"_id" json:"gameId"`
	CommentIDs []interface{} `bson:"comment_ids" json:"commentIds"`
	AvgRating  *float64      `bson:"avg_rating" json:"averageRating"`
}
