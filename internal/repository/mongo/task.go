package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/St1cky1/todo-service/internal/entity"
	"github.com/St1cky1/todo-service/internal/infrastructure/client"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TasksCollection = "tasks"
	UsersCollection = "users"
)

// taskDocument - представление задачи в коллекции
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Priority    string             `bson:"priority"`
	Category    string             `bson:"category"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func newTaskDocument(t *entity.Task) *taskDocument {
	return &taskDocument{
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d *taskDocument) toEntity() *entity.Task {
	task := &entity.Task{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    entity.Priority(d.Priority),
		Category:    entity.Category(d.Category),
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		task.DueDate = &due
	}
	return task
}

type TaskRepository struct {
	db *client.MongoClient
}

func NewTaskRepository(db *client.MongoClient) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	coll, err := r.db.Collection(ctx, TasksCollection)
	if err != nil {
		return nil, err
	}

	doc := newTaskDocument(task)
	doc.ID = primitive.NewObjectID()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return doc.toEntity(), nil
}

func (r *TaskRepository) FindOne(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error) {
	query, ok := ownerFilter(filter)
	if !ok {
		return nil, entity.ErrTaskNotFound
	}

	coll, err := r.db.Collection(ctx, TasksCollection)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	if err := coll.FindOne(ctx, query).Decode(&doc); err != nil {
		return nil, translateError("find task", err)
	}

	return doc.toEntity(), nil
}

func (r *TaskRepository) FindMany(ctx context.Context, filter entity.TaskListFilter) ([]entity.Task, error) {
	coll, err := r.db.Collection(ctx, TasksCollection)
	if err != nil {
		return nil, err
	}

	query := bson.M{"owner_id": filter.OwnerID}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	if filter.Priority != nil {
		query["priority"] = string(*filter.Priority)
	}
	if filter.Category != nil {
		query["category"] = string(*filter.Category)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]entity.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, *doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) FindAndUpdate(ctx context.Context, filter entity.TaskFilter, patch *entity.TaskPatch, opts entity.UpdateOptions) (*entity.Task, error) {
	if opts.RunValidators {
		if err := patch.Validate(); err != nil {
			return nil, err
		}
	}

	query, ok := ownerFilter(filter)
	if !ok {
		return nil, entity.ErrTaskNotFound
	}

	coll, err := r.db.Collection(ctx, TasksCollection)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": patch.UpdatedAt}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Priority != nil {
		set["priority"] = string(*patch.Priority)
	}
	if patch.Category != nil {
		set["category"] = string(*patch.Category)
	}
	if !patch.ClearDueDate && patch.DueDate != nil {
		set["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	update := bson.M{"$set": set}
	if patch.ClearDueDate {
		update["$unset"] = bson.M{"due_date": ""}
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	if err := coll.FindOneAndUpdate(ctx, query, update, after).Decode(&doc); err != nil {
		return nil, translateError("update task", err)
	}

	return doc.toEntity(), nil
}

func (r *TaskRepository) FindAndDelete(ctx context.Context, filter entity.TaskFilter) (*entity.Task, error) {
	query, ok := ownerFilter(filter)
	if !ok {
		return nil, entity.ErrTaskNotFound
	}

	coll, err := r.db.Collection(ctx, TasksCollection)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	if err := coll.FindOneAndDelete(ctx, query).Decode(&doc); err != nil {
		return nil, translateError("delete task", err)
	}

	return doc.toEntity(), nil
}

// ownerFilter строит {_id, owner_id}; невалидный ObjectID ни с чем не совпадает
func ownerFilter(filter entity.TaskFilter) (bson.M, bool) {
	id, err := primitive.ObjectIDFromHex(filter.ID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": id, "owner_id": filter.OwnerID}, true
}

func translateError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.ErrTaskNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
