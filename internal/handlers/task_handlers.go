package handlers

import (
	"net/http"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
	// в режиме разработки клиент видит текст внутренней ошибки
	development bool
}

func NewTaskHandler(taskService Service, development bool) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		development: development,
	}
}

// Routes регистрирует все маршруты API на роутере
func (h *TaskHandler) Routes(r chi.Router) {
	r.NotFound(h.RouteNotFound)
	r.MethodNotAllowed(h.RouteNotFound)

	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.GetTasks)  // GET /tasks
		r.Post("/", h.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", h.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", h.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK, dto.HealthResponse{OK: true})
}

func (h *TaskHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Warn("HTTP: Хранилище недоступно", zap.Error(err))

		message := "storage unavailable"
		if h.development {
			message = err.Error()
		}
		responseWithJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{OK: false, Message: message})
		return
	}
	responseWithJSON(w, http.StatusOK, dto.HealthResponse{OK: true})
}

func (h *TaskHandler) RouteNotFound(w http.ResponseWriter, r *http.Request) {
	h.responseWithError(w, r, service.NewRouteNotFound())
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := h.TaskService.ListTasks(r.Context())
	if err != nil {
		h.responseWithError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request service.CreateTaskInput
	if err := decodeBody(w, r, &request); err != nil {
		h.responseWithError(w, r, err)
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), request)
	if err != nil {
		h.responseWithError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	found, err := h.TaskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.responseWithError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTask(found))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	// формат id проверяется раньше тела запроса
	if err := h.TaskService.ValidateID(id); err != nil {
		h.responseWithError(w, r, err)
		return
	}

	var request service.UpdateTaskInput
	if err := decodeBody(w, r, &request); err != nil {
		h.responseWithError(w, r, err)
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), id, request)
	if err != nil {
		h.responseWithError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		h.responseWithError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}
