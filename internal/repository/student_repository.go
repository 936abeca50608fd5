package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/mentorship-api/internal/models"
	"github.com/harentsoaR/mentorship-api/internal/utils"
)

const StudentsCollection = "students"

// StudentRepository persists students in MongoDB. Every write passes through
// the password hasher first.
type StudentRepository struct {
	coll   *mongo.Collection
	hasher *utils.PasswordHasher
}

func NewStudentRepository(db *mongo.Database, hasher *utils.PasswordHasher) *StudentRepository {
	return &StudentRepository{coll: db.Collection(StudentsCollection), hasher: hasher}
}

func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *StudentRepository) findOne(ctx context.Context, filter bson.M) (*models.Student, error) {
	var student models.Student
	if err := r.coll.FindOne(ctx, filter).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.hasher.Seal(student); err != nil {
		return err
	}
	now := time.Now().UTC()
	student.ID = primitive.NewObjectID()
	student.CreatedAt = now
	student.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		return translateWriteError(err)
	}
	return nil
}

// List returns every student, newest first.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	students := make([]models.Student, 0)
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}
