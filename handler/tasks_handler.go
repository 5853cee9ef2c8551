package handler

import (
	"studyflow/dto"
	"studyflow/middleware"
	"studyflow/usecase"
	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks *usecase.TaskService
}

func NewTaskHandler(tasks *usecase.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"tasks": tasks})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.TaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.CreateTask(c.Request.Context(), middleware.UserID(c), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, task)
}

func (h *TaskHandler) CreateFromHabit(c *gin.Context) {
	var req dto.TaskFromHabitRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.CreateFromHabit(c.Request.Context(), middleware.UserID(c), req.HabitID, req.EstimatedPomodoros, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.tasks.UpdateTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Update())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, task)
}

func (h *TaskHandler) ToggleTask(c *gin.Context) {
	task, err := h.tasks.ToggleTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.tasks.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Message(c, "Task deleted")
}
