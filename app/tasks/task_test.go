package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type recordingTask struct {
	Task
	executions atomic.Int32
	err        error
}

func (t *recordingTask) Execute(ctx context.Context) error {
	t.executions.Add(1)
	return t.err
}

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskTypeRefreshMenu)

	if task.GetType() != TaskTypeRefreshMenu {
		t.Errorf("Expected type %s, got %s", TaskTypeRefreshMenu, task.GetType())
	}
	if task.GetID() == "" {
		t.Error("Expected a generated task ID")
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected retry count 0, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, task.GetMaxRetries())
	}
}

func TestTaskRetryAccounting(t *testing.T) {
	task := NewTask(TaskTypePrecacheAssets)

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected task to be retryable at retry count %d", task.GetRetryCount())
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Errorf("Expected task to be exhausted after %d retries", DefaultMaxRetries)
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeRefreshMenu)

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before Start")
	}

	task.Start()
	time.Sleep(10 * time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after Start")
	}
}

func TestSchedulerExecutesQueuedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scheduler := &Scheduler{
		interval:    time.Hour,
		workerCount: 1,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
	}

	done := make(chan struct{})
	task := &recordingTask{Task: NewTask(TaskTypeRefreshMenu)}

	scheduler.wg.Add(1)
	go func() {
		scheduler.runWorker(0)
		close(done)
	}()

	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for task.executions.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Expected the worker to execute the queued task")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestSchedulerEnqueueFullQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := &Scheduler{
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 1),
	}

	first := &recordingTask{Task: NewTask(TaskTypeRefreshMenu)}
	if err := scheduler.EnqueueTask(first); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	second := &recordingTask{Task: NewTask(TaskTypeRefreshMenu)}
	if err := scheduler.EnqueueTask(second); err == nil {
		t.Error("Expected an error when the queue is full")
	}
}
