package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/npezzotti/go-office/internal/types"
)

type CreateRoomRequest struct {
	RoomName string `json:"roomName"`
}

type EditRoomRequest struct {
	RoomName string `json:"roomName"`
}

type CreateTodoRequest struct {
	Day  string `json:"day"`
	Text string `json:"text"`
}

type LobbyResponse struct {
	RoomId int `json:"roomId"`
}

func (s *OfficeApp) writeJson(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := sonic.ConfigStd.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *OfficeApp) writeError(w http.ResponseWriter, errResp *ApiError) {
	if errResp.Err != nil {
		s.log.WithError(errResp.Err).WithField("status", errResp.StatusCode).Warn(errResp.Message)
	}
	s.writeJson(w, errResp.StatusCode, errResp)
}

func (s *OfficeApp) decodeJson(r *http.Request, v any) error {
	return sonic.ConfigStd.NewDecoder(r.Body).Decode(v)
}

func pathId(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *OfficeApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *OfficeApp) getMembers(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, s.store.SortedMembersByOnline())
}

// getTodos returns the current user's todos sorted by done. With a userId
// query it previews that user's todos straight from the backend instead.
func (s *OfficeApp) getTodos(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		s.writeJson(w, http.StatusOK, s.store.SortedTodosByDone())
		return
	}

	userId, err := strconv.Atoi(raw)
	if err != nil || userId <= 0 {
		s.writeError(w, NewBadRequestError())
		return
	}

	todos, err := s.store.GetTodos(r.Context(), userId)
	if err != nil {
		s.writeError(w, actionError("failed to load todos", err))
		return
	}
	if todos == nil {
		todos = []types.Todo{}
	}

	s.writeJson(w, http.StatusOK, todos)
}

func (s *OfficeApp) createTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := s.decodeJson(r, &req); err != nil || req.Text == "" || req.Day == "" {
		s.writeError(w, NewBadRequestError())
		return
	}

	todo, err := s.store.CreateTodo(r.Context(), types.TodoParams{Day: req.Day, Text: req.Text})
	if err != nil {
		s.writeError(w, actionError("failed to create todo", err))
		return
	}

	s.writeJson(w, http.StatusCreated, todo)
}

func (s *OfficeApp) toggleTodo(w http.ResponseWriter, r *http.Request) {
	todoId, ok := pathId(r)
	if !ok {
		s.writeError(w, NewBadRequestError())
		return
	}

	if err := s.store.ToggleTodoDone(r.Context(), todoId); err != nil {
		s.writeError(w, actionError(sentinelMessage(err), err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *OfficeApp) deleteTodo(w http.ResponseWriter, r *http.Request) {
	todoId, ok := pathId(r)
	if !ok {
		s.writeError(w, NewBadRequestError())
		return
	}

	if err := s.store.DeleteTodo(r.Context(), todoId); err != nil {
		s.writeError(w, actionError("failed to delete todo", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *OfficeApp) getRooms(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, s.store.Rooms())
}

func (s *OfficeApp) createRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := s.decodeJson(r, &req); err != nil || req.RoomName == "" {
		s.writeError(w, NewBadRequestError())
		return
	}

	params := types.RoomParams{
		RoomName: req.RoomName,
		OfficeId: s.sess.CurrentUser().OfficeId,
	}
	room, err := s.store.CreateRoom(r.Context(), params)
	if err != nil {
		s.writeError(w, actionError(sentinelMessage(err), err))
		return
	}

	s.writeJson(w, http.StatusCreated, room)
}

func (s *OfficeApp) editRoom(w http.ResponseWriter, r *http.Request) {
	roomId, ok := pathId(r)
	if !ok {
		s.writeError(w, NewBadRequestError())
		return
	}

	var req EditRoomRequest
	if err := s.decodeJson(r, &req); err != nil || req.RoomName == "" {
		s.writeError(w, NewBadRequestError())
		return
	}

	room, err := s.store.EditRoom(r.Context(), roomId, req.RoomName)
	if err != nil {
		s.writeError(w, actionError(sentinelMessage(err), err))
		return
	}

	s.writeJson(w, http.StatusOK, room)
}

func (s *OfficeApp) deleteRoom(w http.ResponseWriter, r *http.Request) {
	roomId, ok := pathId(r)
	if !ok {
		s.writeError(w, NewBadRequestError())
		return
	}

	if err := s.store.DeleteRoom(r.Context(), roomId); err != nil {
		s.writeError(w, actionError(sentinelMessage(err), err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *OfficeApp) getLobby(w http.ResponseWriter, r *http.Request) {
	roomId, ok := s.store.LobbyId()
	if !ok {
		s.writeError(w, NewNotFoundError())
		return
	}

	s.writeJson(w, http.StatusOK, LobbyResponse{RoomId: roomId})
}

func (s *OfficeApp) getNotifications(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, s.store.Notifications())
}

func (s *OfficeApp) deleteNotification(w http.ResponseWriter, r *http.Request) {
	notiId, ok := pathId(r)
	if !ok {
		s.writeError(w, NewBadRequestError())
		return
	}

	if err := s.store.DeleteNotification(r.Context(), notiId); err != nil {
		s.writeError(w, actionError("failed to delete notification", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getDepts loads reference data on first use; later reads come from memory.
func (s *OfficeApp) getDepts(w http.ResponseWriter, r *http.Request) {
	depts := s.store.Depts()
	if len(depts) == 0 {
		var err error
		if depts, err = s.store.GetDepts(r.Context()); err != nil {
			s.writeError(w, actionError(sentinelMessage(err), err))
			return
		}
	}

	s.writeJson(w, http.StatusOK, depts)
}

func (s *OfficeApp) getJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.store.Jobs()
	if len(jobs) == 0 {
		var err error
		if jobs, err = s.store.GetJobs(r.Context()); err != nil {
			s.writeError(w, actionError(sentinelMessage(err), err))
			return
		}
	}

	s.writeJson(w, http.StatusOK, jobs)
}

func (s *OfficeApp) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		s.writeError(w, NewBadGatewayError("refresh incomplete", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh reloads every per-user collection. Each fetch runs even if an
// earlier one failed; the failures are joined.
func (s *OfficeApp) Refresh(ctx context.Context) error {
	var errs []error
	for _, fetch := range []func(context.Context) error{
		s.store.GetMembers,
		s.store.GetRooms,
		s.store.GetNotifications,
		func(ctx context.Context) error {
			_, err := s.store.GetTodos(ctx, s.sess.CurrentUser().UserId)
			return err
		},
	} {
		if err := fetch(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// sentinelMessage returns the outermost message of a wrapped action error,
// which for surfacing actions is the user facing sentinel.
func sentinelMessage(err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return errs[0].Error()
		}
	}
	return err.Error()
}
