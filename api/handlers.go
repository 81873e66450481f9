package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"board-api/domain"
)

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, store Store, gate Gate, logger *log.Logger) {
	e.GET("/healthz", healthz())

	e.GET("/api/state", getState(store))
	e.PUT("/api/state/darkmode", putDarkMode(store, logger))
	e.GET("/api/boards", getBoards(store))
	e.GET("/api/boards/:boardID", getBoard(store))

	e.POST("/api/boards/:boardID/sections/:sectionID/tasks", postTask(store, logger))
	e.PATCH("/api/boards/:boardID/sections/:sectionID/tasks/:taskID", patchTask(store, logger))
	e.DELETE("/api/boards/:boardID/sections/:sectionID/tasks/:taskID", deleteTask(store, logger))
	e.POST("/api/boards/:boardID/sections/:sectionID/tasks/:taskID/subtasks/:subtaskID/toggle", toggleSubtask(store, logger))
	e.POST("/api/boards/:boardID/sections/:sectionID/sort", sortSection(store, logger))

	e.POST("/api/tasks/move", moveTask(store, logger))
	e.POST("/api/tasks/shift-board", shiftBoard(store, gate, logger))
	e.POST("/api/tasks/shift-section", shiftSection(store, gate, logger))

	e.GET("/api/confirm", getConfirm(gate))
	e.POST("/api/confirm/accept", resolveConfirm(gate, true))
	e.POST("/api/confirm/cancel", resolveConfirm(gate, false))

	e.GET("/api/drag", getDrag(store))
	e.POST("/api/drag/start", startDrag(store))
	e.POST("/api/drag/end", endDrag(store))
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getState(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.State())
	}
}

func getBoards(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.Boards())
	}
}

func getBoard(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, ok := store.BoardByID(c.Param("boardID"))
		if !ok {
			return c.String(http.StatusNotFound, "board not found")
		}
		return c.JSON(http.StatusOK, b)
	}
}

func putDarkMode(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/state/darkmode")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		var req darkModeRequest
		if decodeErr := decodeBody(c, &req); decodeErr != nil {
			m.SetErrorStage("decode")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}
		store.SetDarkMode(req.DarkMode)
		m.SetApplied(true)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: true})
		return err
	}
}

// taskCreateRequest is the add-task payload.
type taskCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ScheduledAt *string          `json:"scheduledAt"`
	Subtasks    []domain.Subtask `json:"subtasks"`
}

func postTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/tasks")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		var req taskCreateRequest
		if decodeErr := decodeBody(c, &req); decodeErr != nil {
			m.SetErrorStage("decode")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}
		if strings.TrimSpace(req.Title) == "" {
			m.SetErrorStage("empty_title")
			err = c.String(http.StatusBadRequest, "title required")
			return err
		}
		if req.ScheduledAt != nil {
			if _, parseErr := time.Parse(time.RFC3339, *req.ScheduledAt); parseErr != nil {
				m.SetErrorStage("invalid_schedule")
				err = c.String(http.StatusBadRequest, "invalid scheduledAt")
				return err
			}
		}

		applyStart := time.Now()
		applied := store.AddTask(c.Param("boardID"), c.Param("sectionID"), domain.TaskPayload{
			Title:       req.Title,
			Description: req.Description,
			ScheduledAt: req.ScheduledAt,
			Subtasks:    req.Subtasks,
		})
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

// taskUpdateRequest is the partial-update payload. ScheduledAt is kept
// raw so an explicit null (clear the schedule) can be told apart from
// an absent field (leave it alone).
type taskUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	ScheduledAt json.RawMessage  `json:"scheduledAt"`
	Subtasks    []domain.Subtask `json:"subtasks"`
}

func patchTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/tasks")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		var req taskUpdateRequest
		if decodeErr := decodeBody(c, &req); decodeErr != nil {
			m.SetErrorStage("decode")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}

		update := domain.TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Subtasks:    req.Subtasks,
		}
		if len(req.ScheduledAt) > 0 {
			var sched *string
			if unmarshalErr := sonic.Unmarshal(req.ScheduledAt, &sched); unmarshalErr != nil {
				m.SetErrorStage("invalid_schedule")
				err = c.String(http.StatusBadRequest, "invalid scheduledAt")
				return err
			}
			if sched != nil {
				if _, parseErr := time.Parse(time.RFC3339, *sched); parseErr != nil {
					m.SetErrorStage("invalid_schedule")
					err = c.String(http.StatusBadRequest, "invalid scheduledAt")
					return err
				}
			}
			update.SetScheduledAt = true
			update.ScheduledAt = sched
		}

		applyStart := time.Now()
		applied := store.UpdateTask(c.Param("boardID"), c.Param("sectionID"), c.Param("taskID"), update)
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

func deleteTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/tasks")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		applyStart := time.Now()
		applied := store.DeleteTask(c.Param("boardID"), c.Param("sectionID"), c.Param("taskID"))
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

func toggleSubtask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/subtasks/toggle")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		applyStart := time.Now()
		applied := store.ToggleSubtask(c.Param("boardID"), c.Param("sectionID"), c.Param("taskID"), c.Param("subtaskID"))
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

func sortSection(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/sections/sort")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		applyStart := time.Now()
		applied := store.SortSectionTasks(c.Param("boardID"), c.Param("sectionID"))
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

func moveTask(store Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, "/api/tasks/move")
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		var req moveRequest
		if decodeErr := decodeBody(c, &req); decodeErr != nil {
			m.SetErrorStage("decode")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}

		applyStart := time.Now()
		applied := store.MoveTask(req.From, req.To)
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

func shiftBoard(store Store, gate Gate, logger *log.Logger) echo.HandlerFunc {
	return shiftHandler(store, gate, logger, "/api/tasks/shift-board",
		"This task is scheduled. Move it to the adjacent board?",
		func(req shiftRequest) bool {
			return store.MoveTaskToAdjacentBoard(req.TaskID, req.BoardID, req.SectionID, req.Direction)
		})
}

func shiftSection(store Store, gate Gate, logger *log.Logger) echo.HandlerFunc {
	return shiftHandler(store, gate, logger, "/api/tasks/shift-section",
		"This task is scheduled. Move it to the adjacent section?",
		func(req shiftRequest) bool {
			return store.MoveTaskToAdjacentSection(req.TaskID, req.BoardID, req.SectionID, req.Direction)
		})
}

// shiftHandler is the shared flow for the two adjacency moves: decode,
// consult the detach predicate, suspend on the confirm gate when the
// caller has not pre-confirmed, then apply.
func shiftHandler(store Store, gate Gate, logger *log.Logger, route, prompt string, apply func(shiftRequest) bool) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		m, ctx := newMutationMetrics(c.Request().Context(), logger, route)
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() { m.Log(c.Response().Status, err) }()

		var req shiftRequest
		if decodeErr := decodeBody(c, &req); decodeErr != nil {
			m.SetErrorStage("decode")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}
		if !req.Direction.Valid() {
			m.SetErrorStage("invalid_direction")
			err = c.String(http.StatusBadRequest, "invalid direction")
			return err
		}

		if !req.Confirmed && store.RequiresConfirmForDetach(req.TaskID, req.BoardID, req.SectionID) {
			confirmStart := time.Now()
			select {
			case accepted := <-gate.Open(prompt):
				m.ObserveConfirm(time.Since(confirmStart))
				if !accepted {
					m.SetCancelled(true)
					err = c.JSON(http.StatusOK, mutationResponse{Applied: false, Cancelled: true})
					return err
				}
			case <-ctx.Done():
				gate.Cancel()
				m.SetErrorStage("confirm_interrupted")
				err = c.NoContent(http.StatusRequestTimeout)
				return err
			}
		}

		applyStart := time.Now()
		applied := apply(req)
		m.ObserveApply(time.Since(applyStart))
		m.SetApplied(applied)
		err = c.JSON(http.StatusOK, mutationResponse{Applied: applied})
		return err
	}
}

func getConfirm(gate Gate) echo.HandlerFunc {
	return func(c echo.Context) error {
		msg, pending := gate.Pending()
		return c.JSON(http.StatusOK, confirmStateResponse{Pending: pending, Message: msg})
	}
}

func resolveConfirm(gate Gate, accept bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var resolved bool
		if accept {
			resolved = gate.Accept()
		} else {
			resolved = gate.Cancel()
		}
		if !resolved {
			return c.String(http.StatusConflict, "no pending prompt")
		}
		return c.NoContent(http.StatusOK)
	}
}

func getDrag(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, store.Drag())
	}
}

func startDrag(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dragStartRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		store.StartDrag(req.TaskID, req.BoardID, req.SectionID)
		return c.NoContent(http.StatusOK)
	}
}

func endDrag(store Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		store.EndDrag()
		return c.NoContent(http.StatusOK)
	}
}
