package main

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountryCleanliness is one output row. AvgCleanliness is nil when no
// listing of the country carries a cleanliness score.
type CountryCleanliness struct {
	Country        string   `bson:"_id" json:"country"`
	Count          int      `bson:"count" json:"count"`
	AvgCleanliness *float64 `bson:"avg_cleanliness" json:"avg_cleanliness"`
}

func cleanlinessPipeline(propertyType string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "property_type", Value: propertyType}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$address.country"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "cleanliness", Value: bson.D{{Key: "$push", Value: "$review_scores.review_scores_cleanliness"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "count", Value: 1},
			{Key: "avg_cleanliness", Value: bson.D{{Key: "$avg", Value: "$cleanliness"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_cleanliness", Value: 1}}}},
	}
}
