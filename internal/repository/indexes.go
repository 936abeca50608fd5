package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique email indexes the duplicate-email rule
// relies on, plus the listing indexes. It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	students := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
	}
	mentors := []mongo.IndexModel{
		{Keys: bson.D{{Key: "emails.college", Value: 1}}, Options: options.Index().SetUnique(true).SetName("emails_college_unique")},
		{Keys: bson.D{{Key: "emails.personal", Value: 1}}, Options: options.Index().SetUnique(true).SetName("emails_personal_unique")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("createdAt_desc")},
	}

	if _, err := db.Collection(StudentsCollection).Indexes().CreateMany(ctx, students); err != nil {
		return fmt.Errorf("create student indexes: %w", err)
	}
	if _, err := db.Collection(MentorsCollection).Indexes().CreateMany(ctx, mentors); err != nil {
		return fmt.Errorf("create mentor indexes: %w", err)
	}
	return nil
}
