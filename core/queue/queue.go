package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"eventhub-api/core/constants"
	"eventhub-api/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskParseResume = "resume:parse"

type ParseResumePayload struct {
	ResumeVersionID uuid.UUID `json:"resume_version_id"`
}

// IQueue is the fire-and-forget job dispatch collaborator.
type IQueue interface {
	EnqueueParseResume(ctx context.Context, resumeVersionID uuid.UUID) (string, error)
	Close() error
}

type Queue struct {
	client *asynq.Client
}

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

var instance *Queue

func GetQueue() IQueue {
	return instance
}

func Init(config QueueConfig) (*Queue, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	instance = &Queue{client: client}
	logger.Info("Job queue initialized", "redis_addr", config.RedisAddr)
	return instance, nil
}

func (q *Queue) EnqueueParseResume(ctx context.Context, resumeVersionID uuid.UUID) (string, error) {
	payload, err := json.Marshal(ParseResumePayload{ResumeVersionID: resumeVersionID})
	if err != nil {
		return "", fmt.Errorf("marshal parse_resume payload: %w", err)
	}

	task := asynq.NewTask(TaskParseResume, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(constants.QueueIngest),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TaskParseResume, err)
	}
	return info.ID, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// NewWorkerServer builds the asynq server side; handlers are registered on
// the returned mux by core/server.
func NewWorkerServer(config QueueConfig, concurrency int) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				constants.QueueIngest:  5,
				constants.QueueDefault: 1,
			},
		},
	)
	return srv, asynq.NewServeMux()
}
