package mongodb

import (
	"context"
	"fmt"

	"bggapi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewRepository aggregates review documents keyed by game id.
type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(coll *mongo.Collection) *ReviewRepository {
	return &ReviewRepository{coll: coll}
}

// ReviewSummaryPipeline matches the reviews of one game and groups them
// into the ids of the reviews and their mean rating.
func ReviewSummaryPipeline(gameID int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "ID", Value: gameID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$ID"},
			{Key: "comment_ids", Value: bson.D{{Key: "$push", Value: "$_id"}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}
}

// Summarize returns zero or one summary. Zero means the game has no reviews.
func (r *ReviewRepository) Summarize(ctx context.Context, gameID int64) ([]models.ReviewSummary, error) {
	cursor, err := r.coll.Aggregate(ctx, ReviewSummaryPipeline(gameID))
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews for game %d: %w", gameID, err)
	}

	summaries := make([]models.ReviewSummary, 0, 1)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode reviews for game %d: %w", gameID, err)
	}
	return summaries, nil
}
