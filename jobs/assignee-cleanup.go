// Package jobs holds the scheduled maintenance work that runs alongside the
// HTTP server.
package jobs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sudip-bhr/Task-Management-System-backend/logging"
)

// AssigneeCleanupJob prunes assignee references that point at users who no
// longer exist. User deletion does not cascade into tasks (references are
// weak), so stale IDs accumulate until this job removes them.
type AssigneeCleanupJob struct {
	tasksCollection *mongo.Collection
	usersCollection *mongo.Collection
}

func NewAssigneeCleanupJob(tasksCollection, usersCollection *mongo.Collection) *AssigneeCleanupJob {
	return &AssigneeCleanupJob{
		tasksCollection: tasksCollection,
		usersCollection: usersCollection,
	}
}

// Run implements cron.Job.
func (j *AssigneeCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := j.usersCollection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		logging.Logger.Errorf("assignee cleanup: failed to list users: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var users []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &users); err != nil {
		logging.Logger.Errorf("assignee cleanup: failed to decode users: %v", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	result, err := j.tasksCollection.UpdateMany(ctx,
		bson.M{"assignedTo.0": bson.M{"$exists": true}},
		bson.M{"$pull": bson.M{"assignedTo": bson.M{"$nin": ids}}},
	)
	if err != nil {
		logging.Logger.Errorf("assignee cleanup: failed to prune references: %v", err)
		return
	}

	if result.ModifiedCount > 0 {
		logging.Logger.Infof("assignee cleanup: pruned stale references from %d tasks", result.ModifiedCount)
	}
}
