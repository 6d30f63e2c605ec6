package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/npezzotti/go-office/internal/types"
	log "github.com/sirupsen/logrus"
)

// failLoud logs err and wraps it with the user facing sentinel.
func (s *OfficeState) failLoud(action string, sentinel, err error, fields log.Fields) error {
	s.log.WithFields(fields).WithField("action", action).WithError(err).Error("office action failed")
	return fmt.Errorf("%w: %w", sentinel, err)
}

// failSilent logs err for diagnostics. The error is still returned; callers
// refreshing in the background may drop it.
func (s *OfficeState) failSilent(action string, err error, fields log.Fields) error {
	s.log.WithFields(fields).WithField("action", action).WithError(err).Warn("office action failed")
	return fmt.Errorf("%s: %w", action, err)
}

func (s *OfficeState) GetDepts(ctx context.Context) ([]types.Dept, error) {
	depts, err := s.api.Office.Depts(ctx)
	if err != nil {
		return nil, s.failLoud("get depts", ErrLoadDepts, err, nil)
	}

	s.SetDepts(depts)
	return depts, nil
}

func (s *OfficeState) GetJobs(ctx context.Context) ([]types.Job, error) {
	jobs, err := s.api.Office.Jobs(ctx)
	if err != nil {
		return nil, s.failLoud("get jobs", ErrLoadJobs, err, nil)
	}

	s.SetJobs(jobs)
	return jobs, nil
}

// RegisterOffice creates a new office. It does not touch any collection.
func (s *OfficeState) RegisterOffice(ctx context.Context, form types.OfficeRegistration) (types.Office, error) {
	office, err := s.api.Office.Register(ctx, form)
	if err != nil {
		return types.Office{}, s.failLoud("register office", ErrRegisterOffice, err, log.Fields{"office_name": form.OfficeName})
	}

	s.log.WithField("office_id", office.OfficeId).Info("office registered")
	return office, nil
}

func (s *OfficeState) GetNotifications(ctx context.Context) error {
	notis, err := s.api.Notifications.List(ctx, s.sess.AccessToken())
	if err != nil {
		return s.failSilent("get notifications", err, nil)
	}

	s.SetNotifications(notis)
	return nil
}

func (s *OfficeState) DeleteNotification(ctx context.Context, notiId int) error {
	if err := s.api.Notifications.Delete(ctx, s.sess.AccessToken(), notiId); err != nil {
		return s.failSilent("delete notification", err, log.Fields{"noti_id": notiId})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = slices.DeleteFunc(clone(s.notifications), func(n types.Notification) bool {
		return n.NotiId == notiId
	})
	return nil
}

// GetTodos fetches the todos of userId. They are committed only if userId is
// still the current user when the response arrives, so previewing someone
// else's todos never replaces the current user's list.
func (s *OfficeState) GetTodos(ctx context.Context, userId int) ([]types.Todo, error) {
	todos, err := s.api.Todos.List(ctx, s.sess.AccessToken(), userId)
	if err != nil {
		return nil, s.failSilent("get todos", err, log.Fields{"user_id": userId})
	}

	if s.sess.CurrentUser().UserId == userId {
		s.SetTodos(todos)
	}
	return todos, nil
}

// CreateTodo creates a todo for the current user unless params names another
// user or office explicitly.
func (s *OfficeState) CreateTodo(ctx context.Context, params types.TodoParams) (types.Todo, error) {
	user := s.sess.CurrentUser()
	if params.UserId == 0 {
		params.UserId = user.UserId
	}
	if params.OfficeId == 0 {
		params.OfficeId = user.OfficeId
	}

	todo, err := s.api.Todos.Create(ctx, s.sess.AccessToken(), params)
	if err != nil {
		return types.Todo{}, s.failSilent("create todo", err, log.Fields{"user_id": params.UserId})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append(clone(s.todos), todo)
	return todo, nil
}

func (s *OfficeState) DeleteTodo(ctx context.Context, todoId int) error {
	if err := s.api.Todos.Delete(ctx, s.sess.AccessToken(), todoId); err != nil {
		return s.failSilent("delete todo", err, log.Fields{"todo_id": todoId})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = slices.DeleteFunc(clone(s.todos), func(t types.Todo) bool {
		return t.TodoId == todoId
	})
	return nil
}

// ToggleTodoDone flips a todo's done state. The local flip is applied only
// once the server has accepted the change.
func (s *OfficeState) ToggleTodoDone(ctx context.Context, todoId int) error {
	if err := s.api.Todos.Toggle(ctx, s.sess.AccessToken(), todoId); err != nil {
		return s.failLoud("toggle todo", ErrToggleTodo, err, log.Fields{"todo_id": todoId})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	todos := clone(s.todos)
	for i := range todos {
		if todos[i].TodoId == todoId {
			todos[i].Done = !todos[i].Done
		}
	}
	s.todos = todos
	return nil
}

// GetMembers reloads the current office's members. Presence is cleared.
func (s *OfficeState) GetMembers(ctx context.Context) error {
	officeId := s.sess.CurrentUser().OfficeId
	members, err := s.api.Users.List(ctx, s.sess.AccessToken(), officeId)
	if err != nil {
		return s.failSilent("get members", err, log.Fields{"office_id": officeId})
	}

	s.SetMembers(members)
	return nil
}

// GetMember fetches a single member without changing any collection.
func (s *OfficeState) GetMember(ctx context.Context, userId int) (types.Member, error) {
	member, err := s.api.Users.Get(ctx, s.sess.AccessToken(), userId)
	if err != nil {
		return types.Member{}, s.failSilent("get member", err, log.Fields{"user_id": userId})
	}

	return member, nil
}

func (s *OfficeState) GetRooms(ctx context.Context) error {
	officeId := s.sess.CurrentUser().OfficeId
	rooms, err := s.api.Rooms.List(ctx, s.sess.AccessToken(), officeId)
	if err != nil {
		return s.failSilent("get rooms", err, log.Fields{"office_id": officeId})
	}

	s.SetRooms(rooms)
	return nil
}

func (s *OfficeState) CreateRoom(ctx context.Context, params types.RoomParams) (types.Room, error) {
	room, err := s.api.Rooms.Create(ctx, s.sess.AccessToken(), params)
	if err != nil {
		return types.Room{}, s.failLoud("create room", ErrCreateRoom, err, log.Fields{"room_name": params.RoomName})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(clone(s.rooms), room)
	return room, nil
}

// EditRoom renames a room. The name the server responds with is the one kept.
func (s *OfficeState) EditRoom(ctx context.Context, roomId int, roomName string) (types.Room, error) {
	updated, err := s.api.Rooms.Update(ctx, s.sess.AccessToken(), roomId, roomName)
	if err != nil {
		return types.Room{}, s.failLoud("edit room", ErrEditRoom, err, log.Fields{"room_id": roomId})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := clone(s.rooms)
	for i := range rooms {
		if rooms[i].RoomId == roomId {
			rooms[i].RoomName = updated.RoomName
		}
	}
	s.rooms = rooms
	return updated, nil
}

func (s *OfficeState) DeleteRoom(ctx context.Context, roomId int) error {
	if err := s.api.Rooms.Delete(ctx, s.sess.AccessToken(), roomId); err != nil {
		return s.failLoud("delete room", ErrDeleteRoom, err, log.Fields{"room_id": roomId})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = slices.DeleteFunc(clone(s.rooms), func(r types.Room) bool {
		return r.RoomId == roomId
	})
	s.log.WithField("room_id", roomId).Info("room deleted")
	return nil
}
