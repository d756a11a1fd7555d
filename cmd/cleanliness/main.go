// Command cleanliness prints, per country, the number of listings of one
// property type and their mean cleanliness score, lowest average first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	mongoURL := flag.String("mongo-url", "mongodb://localhost:27017", "MongoDB connection string")
	database := flag.String("db", "airbnb", "database name")
	collection := flag.String("collection", "listingsAndReviews", "collection name")
	propertyType := flag.String("property-type", "Apartment", "property_type to match")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURL))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}

	coll := client.Database(*database).Collection(*collection)
	results, err := avgCleanliness(ctx, coll, *propertyType)
	if err == nil {
		err = printResults(os.Stdout, results)
	}

	if dErr := client.Disconnect(context.Background()); dErr != nil {
		log.WithError(dErr).Warn("Disconnect failed")
	}
	if err != nil {
		log.WithError(err).WithField("property_type", *propertyType).Fatal("Aggregation failed")
	}
}

func avgCleanliness(ctx context.Context, coll *mongo.Collection, propertyType string) ([]CountryCleanliness, error) {
	cursor, err := coll.Aggregate(ctx, cleanlinessPipeline(propertyType))
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	var results []CountryCleanliness
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}

func printResults(w io.Writer, results []CountryCleanliness) error {
	if results == nil {
		results = []CountryCleanliness{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
