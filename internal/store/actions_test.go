package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/npezzotti/go-office/internal/client"
	"github.com/npezzotti/go-office/internal/session"
	"github.com/npezzotti/go-office/internal/testutil"
	"github.com/npezzotti/go-office/internal/types"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "token"

type mockAPI struct {
	notis  *client.MockNotificationsAPI
	todos  *client.MockTodosAPI
	users  *client.MockUsersAPI
	rooms  *client.MockRoomsAPI
	office *client.MockOfficeAPI
}

func (m *mockAPI) assertExpectations(t *testing.T) {
	m.notis.AssertExpectations(t)
	m.todos.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.rooms.AssertExpectations(t)
	m.office.AssertExpectations(t)
}

func newMockedState(t *testing.T) (*OfficeState, *mockAPI, *session.Static, *test.Hook) {
	t.Helper()
	m := &mockAPI{
		notis:  &client.MockNotificationsAPI{},
		todos:  &client.MockTodosAPI{},
		users:  &client.MockUsersAPI{},
		rooms:  &client.MockRoomsAPI{},
		office: &client.MockOfficeAPI{},
	}
	t.Cleanup(func() { m.assertExpectations(t) })

	sess := session.NewStatic(testToken, types.CurrentUser{UserId: 1, OfficeId: 10})
	logger, hook := testutil.TestLoggerWithHook(t)
	s := New(logger, sess, client.API{
		Notifications: m.notis,
		Todos:         m.todos,
		Users:         m.users,
		Rooms:         m.rooms,
		Office:        m.office,
	})
	return s, m, sess, hook
}

var errBackend = &client.ApiError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}

func TestGetNotifications(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces collection", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetNotifications([]types.Notification{{NotiId: 1}})
		fetched := []types.Notification{{NotiId: 2}, {NotiId: 3}}
		m.notis.On("List", mock.Anything, testToken).Return(fetched, nil).Twice()

		require.NoError(t, s.GetNotifications(ctx))
		assert.Equal(t, fetched, s.Notifications())

		// fetching the same response twice yields the same state
		require.NoError(t, s.GetNotifications(ctx))
		assert.Equal(t, fetched, s.Notifications())
	})

	t.Run("failure leaves state and logs", func(t *testing.T) {
		s, m, _, hook := newMockedState(t)
		prior := []types.Notification{{NotiId: 1}}
		s.SetNotifications(prior)
		m.notis.On("List", mock.Anything, testToken).Return(nil, errBackend).Once()

		err := s.GetNotifications(ctx)
		assert.ErrorIs(t, err, errBackend)
		assert.Equal(t, prior, s.Notifications())

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, log.WarnLevel, entry.Level)
		assert.Equal(t, "get notifications", entry.Data["action"])
	})
}

func TestDeleteNotification(t *testing.T) {
	ctx := context.Background()

	tcases := []struct {
		name     string
		id       int
		mockErr  error
		expected []types.Notification
	}{
		{
			name:     "removes matching notification",
			id:       2,
			expected: []types.Notification{{NotiId: 1}, {NotiId: 3}},
		},
		{
			name:     "absent id leaves collection",
			id:       9,
			expected: []types.Notification{{NotiId: 1}, {NotiId: 2}, {NotiId: 3}},
		},
		{
			name:     "server failure leaves collection",
			id:       2,
			mockErr:  errBackend,
			expected: []types.Notification{{NotiId: 1}, {NotiId: 2}, {NotiId: 3}},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			s, m, _, _ := newMockedState(t)
			s.SetNotifications([]types.Notification{{NotiId: 1}, {NotiId: 2}, {NotiId: 3}})
			m.notis.On("Delete", mock.Anything, testToken, tc.id).Return(tc.mockErr).Once()

			err := s.DeleteNotification(ctx, tc.id)
			if tc.mockErr != nil {
				assert.ErrorIs(t, err, tc.mockErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, s.Notifications())
		})
	}
}

func TestGetTodos(t *testing.T) {
	ctx := context.Background()
	mine := []types.Todo{{TodoId: 1, UserId: 1}}
	theirs := []types.Todo{{TodoId: 7, UserId: 2}}

	t.Run("commits todos of the current user", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		m.todos.On("List", mock.Anything, testToken, 1).Return(mine, nil).Once()

		todos, err := s.GetTodos(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, mine, todos)
		assert.Equal(t, mine, s.Todos())
	})

	t.Run("returns but does not commit another user's todos", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetTodos(mine)
		m.todos.On("List", mock.Anything, testToken, 2).Return(theirs, nil).Once()

		todos, err := s.GetTodos(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, theirs, todos)
		assert.Equal(t, mine, s.Todos())
	})

	t.Run("user switched while in flight", func(t *testing.T) {
		s, m, sess, _ := newMockedState(t)
		s.SetTodos(mine)
		m.todos.On("List", mock.Anything, testToken, 1).
			Run(func(args mock.Arguments) {
				sess.Set(testToken, types.CurrentUser{UserId: 2, OfficeId: 10})
			}).
			Return([]types.Todo{{TodoId: 3, UserId: 1}}, nil).Once()

		_, err := s.GetTodos(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, mine, s.Todos(), "expected stale response not to be committed")
	})

	t.Run("failure leaves state", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetTodos(mine)
		m.todos.On("List", mock.Anything, testToken, 1).Return(nil, errBackend).Once()

		todos, err := s.GetTodos(ctx, 1)
		assert.Error(t, err)
		assert.Nil(t, todos)
		assert.Equal(t, mine, s.Todos())
	})
}

func TestCreateTodo(t *testing.T) {
	ctx := context.Background()

	t.Run("fills current user and appends", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetTodos([]types.Todo{{TodoId: 1}})
		expectedParams := types.TodoParams{UserId: 1, OfficeId: 10, Day: "2024-01-05", Text: "ship"}
		created := types.Todo{TodoId: 2, UserId: 1, OfficeId: 10, Day: "2024-01-05", Text: "ship"}
		m.todos.On("Create", mock.Anything, testToken, expectedParams).Return(created, nil).Once()

		todo, err := s.CreateTodo(ctx, types.TodoParams{Day: "2024-01-05", Text: "ship"})
		require.NoError(t, err)
		assert.Equal(t, created, todo)
		assert.Equal(t, []types.Todo{{TodoId: 1}, created}, s.Todos())
	})

	t.Run("explicit user is kept", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		params := types.TodoParams{UserId: 4, OfficeId: 10, Day: "2024-01-05", Text: "review"}
		m.todos.On("Create", mock.Anything, testToken, params).Return(types.Todo{TodoId: 3, UserId: 4}, nil).Once()

		_, err := s.CreateTodo(ctx, params)
		assert.NoError(t, err)
	})

	t.Run("failure leaves state", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetTodos([]types.Todo{{TodoId: 1}})
		m.todos.On("Create", mock.Anything, testToken, mock.Anything).Return(types.Todo{}, errBackend).Once()

		_, err := s.CreateTodo(ctx, types.TodoParams{Text: "ship"})
		assert.Error(t, err)
		assert.Equal(t, []types.Todo{{TodoId: 1}}, s.Todos())
	})
}

func TestDeleteTodo(t *testing.T) {
	ctx := context.Background()
	s, m, _, _ := newMockedState(t)
	s.SetTodos([]types.Todo{{TodoId: 1}, {TodoId: 2}})
	m.todos.On("Delete", mock.Anything, testToken, 1).Return(nil).Once()
	m.todos.On("Delete", mock.Anything, testToken, 5).Return(nil).Once()

	require.NoError(t, s.DeleteTodo(ctx, 1))
	assert.Equal(t, []types.Todo{{TodoId: 2}}, s.Todos())

	require.NoError(t, s.DeleteTodo(ctx, 5))
	assert.Equal(t, []types.Todo{{TodoId: 2}}, s.Todos())
}

func TestToggleTodoDone(t *testing.T) {
	ctx := context.Background()

	t.Run("flips after success", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetTodos([]types.Todo{{TodoId: 1, Done: false}, {TodoId: 2, Done: true}})
		m.todos.On("Toggle", mock.Anything, testToken, 1).Return(nil).Twice()

		require.NoError(t, s.ToggleTodoDone(ctx, 1))
		assert.Equal(t, []types.Todo{{TodoId: 1, Done: true}, {TodoId: 2, Done: true}}, s.Todos())

		require.NoError(t, s.ToggleTodoDone(ctx, 1))
		assert.Equal(t, []types.Todo{{TodoId: 1, Done: false}, {TodoId: 2, Done: true}}, s.Todos())
	})

	t.Run("failure does not flip", func(t *testing.T) {
		s, m, _, hook := newMockedState(t)
		s.SetTodos([]types.Todo{{TodoId: 1, Done: false}})
		m.todos.On("Toggle", mock.Anything, testToken, 1).Return(errBackend).Once()

		err := s.ToggleTodoDone(ctx, 1)
		assert.ErrorIs(t, err, ErrToggleTodo)
		assert.ErrorIs(t, err, errBackend)
		assert.False(t, s.Todos()[0].Done)
		assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
	})
}

func TestGetMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("scoped by office and resets presence", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		m.users.On("List", mock.Anything, testToken, 10).
			Return([]types.Member{{UserId: 1, Connected: true}, {UserId: 2}}, nil).Once()

		require.NoError(t, s.GetMembers(ctx))
		assert.Equal(t, []types.Member{{UserId: 1}, {UserId: 2}}, s.Members())
	})

	t.Run("failure leaves state", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetMembers([]types.Member{{UserId: 1}})
		m.users.On("List", mock.Anything, testToken, 10).Return(nil, errors.New("dial tcp: refused")).Once()

		assert.Error(t, s.GetMembers(ctx))
		assert.Equal(t, []types.Member{{UserId: 1}}, s.Members())
	})
}

func TestGetMember(t *testing.T) {
	ctx := context.Background()
	s, m, _, _ := newMockedState(t)
	s.SetMembers([]types.Member{{UserId: 1}})
	m.users.On("Get", mock.Anything, testToken, 2).Return(types.Member{UserId: 2, Name: "lee"}, nil).Once()
	m.users.On("Get", mock.Anything, testToken, 3).Return(types.Member{}, errBackend).Once()

	member, err := s.GetMember(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "lee", member.Name)
	assert.Equal(t, []types.Member{{UserId: 1}}, s.Members(), "expected members to be untouched")

	_, err = s.GetMember(ctx, 3)
	assert.Error(t, err)
}

func TestRooms(t *testing.T) {
	ctx := context.Background()

	t.Run("get rooms scoped by office", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		rooms := []types.Room{{RoomId: 1, RoomName: "lobby"}, {RoomId: 2, RoomName: "meeting"}}
		m.rooms.On("List", mock.Anything, testToken, 10).Return(rooms, nil).Once()

		require.NoError(t, s.GetRooms(ctx))
		assert.Equal(t, rooms, s.Rooms())
		id, ok := s.LobbyId()
		assert.True(t, ok)
		assert.Equal(t, 1, id)
	})

	t.Run("create appends server record", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		m.rooms.On("Create", mock.Anything, testToken, types.RoomParams{RoomName: "X"}).
			Return(types.Room{RoomId: 9, RoomName: "X"}, nil).Once()

		room, err := s.CreateRoom(ctx, types.RoomParams{RoomName: "X"})
		require.NoError(t, err)
		assert.Equal(t, types.Room{RoomId: 9, RoomName: "X"}, room)
		assert.Equal(t, []types.Room{{RoomId: 9, RoomName: "X"}}, s.Rooms())
	})

	t.Run("create failure", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		m.rooms.On("Create", mock.Anything, testToken, mock.Anything).Return(types.Room{}, errBackend).Once()

		_, err := s.CreateRoom(ctx, types.RoomParams{RoomName: "X"})
		assert.ErrorIs(t, err, ErrCreateRoom)
		assert.Empty(t, s.Rooms())
	})

	t.Run("edit uses the server's name", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetRooms([]types.Room{{RoomId: 1, RoomName: "lobby"}, {RoomId: 9, RoomName: "X"}})
		m.rooms.On("Update", mock.Anything, testToken, 9, "y").
			Return(types.Room{RoomId: 9, RoomName: "Y"}, nil).Once()

		_, err := s.EditRoom(ctx, 9, "y")
		require.NoError(t, err)
		assert.Equal(t, []types.Room{{RoomId: 1, RoomName: "lobby"}, {RoomId: 9, RoomName: "Y"}}, s.Rooms())
	})

	t.Run("edit failure", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetRooms([]types.Room{{RoomId: 9, RoomName: "X"}})
		m.rooms.On("Update", mock.Anything, testToken, 9, "Y").Return(types.Room{}, errBackend).Once()

		_, err := s.EditRoom(ctx, 9, "Y")
		assert.ErrorIs(t, err, ErrEditRoom)
		assert.Equal(t, "X", s.Rooms()[0].RoomName)
	})

	t.Run("delete removes room", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetRooms([]types.Room{{RoomId: 9, RoomName: "X"}})
		m.rooms.On("Delete", mock.Anything, testToken, 9).Return(nil).Once()

		require.NoError(t, s.DeleteRoom(ctx, 9))
		assert.Equal(t, []types.Room{}, s.Rooms())
	})

	t.Run("delete failure", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		s.SetRooms([]types.Room{{RoomId: 9, RoomName: "X"}})
		m.rooms.On("Delete", mock.Anything, testToken, 9).Return(errBackend).Once()

		err := s.DeleteRoom(ctx, 9)
		assert.ErrorIs(t, err, ErrDeleteRoom)
		assert.Len(t, s.Rooms(), 1)
	})
}

func TestOfficeMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("depts and jobs", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		depts := []types.Dept{{"deptId": float64(1)}}
		jobs := []types.Job{{"jobId": float64(2)}}
		m.office.On("Depts", mock.Anything).Return(depts, nil).Once()
		m.office.On("Jobs", mock.Anything).Return(jobs, nil).Once()

		gotDepts, err := s.GetDepts(ctx)
		require.NoError(t, err)
		assert.Equal(t, depts, gotDepts)
		assert.Equal(t, depts, s.Depts())

		gotJobs, err := s.GetJobs(ctx)
		require.NoError(t, err)
		assert.Equal(t, jobs, gotJobs)
		assert.Equal(t, jobs, s.Jobs())
	})

	t.Run("failures surface", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		m.office.On("Depts", mock.Anything).Return(nil, errBackend).Once()
		m.office.On("Jobs", mock.Anything).Return(nil, errBackend).Once()

		_, err := s.GetDepts(ctx)
		assert.ErrorIs(t, err, ErrLoadDepts)
		_, err = s.GetJobs(ctx)
		assert.ErrorIs(t, err, ErrLoadJobs)
		assert.Empty(t, s.Depts())
		assert.Empty(t, s.Jobs())
	})

	t.Run("register office", func(t *testing.T) {
		s, m, _, _ := newMockedState(t)
		form := types.OfficeRegistration{OfficeName: "inline", AdminName: "kim", AdminEmail: "kim@example.com"}
		m.office.On("Register", mock.Anything, form).Return(types.Office{OfficeId: 3, OfficeName: "inline"}, nil).Once()
		m.office.On("Register", mock.Anything, types.OfficeRegistration{}).Return(types.Office{}, errBackend).Once()

		office, err := s.RegisterOffice(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, 3, office.OfficeId)

		_, err = s.RegisterOffice(ctx, types.OfficeRegistration{})
		assert.ErrorIs(t, err, ErrRegisterOffice)
	})
}
