package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"studyflow/model"
	"studyflow/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	tasks  TaskStore
	habits HabitStore
	now    func() time.Time
}

func NewTaskService(tasks TaskStore, habits HabitStore) *TaskService {
	return &TaskService{tasks: tasks, habits: habits, now: time.Now}
}

// ListTasks orders open tasks first, then by priority, then newest.
func (svc *TaskService) ListTasks(ctx context.Context, userID string) ([]*model.HabitTask, error) {
	tasks, err := svc.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Completed != tasks[j].Completed {
			return !tasks[i].Completed
		}
		if wi, wj := tasks[i].Priority.Weight(), tasks[j].Priority.Weight(); wi != wj {
			return wi > wj
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (svc *TaskService) GetTask(ctx context.Context, userID, taskID string) (*model.HabitTask, error) {
	t, err := svc.tasks.GetTask(ctx, userID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

type TaskInput struct {
	Text               string
	EstimatedPomodoros int
	Priority           model.Priority
	HabitID            string
}

func validateTaskFields(estimate int, priority model.Priority) error {
	if estimate < 1 || estimate > model.MaxEstimatedPomodoros {
		return ErrInvalidEstimate
	}
	if !priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// CreateTask adds a task; with a habit id the habit's id and title are
// copied onto it.
func (svc *TaskService) CreateTask(ctx context.Context, userID string, in TaskInput) (*model.HabitTask, error) {
	if in.EstimatedPomodoros == 0 {
		in.EstimatedPomodoros = 1
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if err := validateTaskFields(in.EstimatedPomodoros, in.Priority); err != nil {
		return nil, err
	}

	now := svc.now().UTC()
	task := &model.HabitTask{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Text:               strings.TrimSpace(in.Text),
		EstimatedPomodoros: in.EstimatedPomodoros,
		Priority:           in.Priority,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if in.HabitID != "" {
		habit, err := svc.habits.GetHabit(ctx, userID, in.HabitID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		if err != nil {
			return nil, err
		}
		task.HabitID = habit.ID
		task.HabitTitle = habit.Title
		if task.Text == "" {
			task.Text = habit.Title
		}
	}
	if task.Text == "" {
		return nil, ErrEmptyTitle
	}

	if err := svc.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateFromHabit makes a task named after the habit.
func (svc *TaskService) CreateFromHabit(ctx context.Context, userID, habitID string, estimate int, priority model.Priority) (*model.HabitTask, error) {
	return svc.CreateTask(ctx, userID, TaskInput{
		EstimatedPomodoros: estimate,
		Priority:           priority,
		HabitID:            habitID,
	})
}

type TaskUpdate struct {
	Text               *string
	EstimatedPomodoros *int
	Priority           *model.Priority
}

func (svc *TaskService) UpdateTask(ctx context.Context, userID, taskID string, upd TaskUpdate) (*model.HabitTask, error) {
	task, err := svc.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if upd.Text != nil {
		text := strings.TrimSpace(*upd.Text)
		if text == "" {
			return nil, ErrEmptyTitle
		}
		task.Text = text
	}
	if upd.EstimatedPomodoros != nil {
		task.EstimatedPomodoros = *upd.EstimatedPomodoros
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if err := validateTaskFields(task.EstimatedPomodoros, task.Priority); err != nil {
		return nil, err
	}
	task.CompleteIfEstimateMet()
	return task, svc.save(ctx, task)
}

func (svc *TaskService) ToggleTask(ctx context.Context, userID, taskID string) (*model.HabitTask, error) {
	task, err := svc.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	return task, svc.save(ctx, task)
}

func (svc *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	err := svc.tasks.DeleteTask(ctx, userID, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

func (svc *TaskService) save(ctx context.Context, task *model.HabitTask) error {
	task.UpdatedAt = svc.now().UTC()
	err := svc.tasks.SaveTask(ctx, task)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
