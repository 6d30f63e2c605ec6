package client

import (
	"context"

	"github.com/npezzotti/go-office/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockNotificationsAPI struct {
	mock.Mock
}

func (m *MockNotificationsAPI) List(ctx context.Context, token string) ([]types.Notification, error) {
	args := m.Called(ctx, token)
	notis, _ := args.Get(0).([]types.Notification)
	return notis, args.Error(1)
}
func (m *MockNotificationsAPI) Delete(ctx context.Context, token string, notiId int) error {
	args := m.Called(ctx, token, notiId)
	return args.Error(0)
}

type MockTodosAPI struct {
	mock.Mock
}

func (m *MockTodosAPI) List(ctx context.Context, token string, userId int) ([]types.Todo, error) {
	args := m.Called(ctx, token, userId)
	todos, _ := args.Get(0).([]types.Todo)
	return todos, args.Error(1)
}
func (m *MockTodosAPI) Create(ctx context.Context, token string, params types.TodoParams) (types.Todo, error) {
	args := m.Called(ctx, token, params)
	return args.Get(0).(types.Todo), args.Error(1)
}
func (m *MockTodosAPI) Delete(ctx context.Context, token string, todoId int) error {
	args := m.Called(ctx, token, todoId)
	return args.Error(0)
}
func (m *MockTodosAPI) Toggle(ctx context.Context, token string, todoId int) error {
	args := m.Called(ctx, token, todoId)
	return args.Error(0)
}

type MockUsersAPI struct {
	mock.Mock
}

func (m *MockUsersAPI) List(ctx context.Context, token string, officeId int) ([]types.Member, error) {
	args := m.Called(ctx, token, officeId)
	members, _ := args.Get(0).([]types.Member)
	return members, args.Error(1)
}
func (m *MockUsersAPI) Get(ctx context.Context, token string, userId int) (types.Member, error) {
	args := m.Called(ctx, token, userId)
	return args.Get(0).(types.Member), args.Error(1)
}

type MockRoomsAPI struct {
	mock.Mock
}

func (m *MockRoomsAPI) List(ctx context.Context, token string, officeId int) ([]types.Room, error) {
	args := m.Called(ctx, token, officeId)
	rooms, _ := args.Get(0).([]types.Room)
	return rooms, args.Error(1)
}
func (m *MockRoomsAPI) Create(ctx context.Context, token string, params types.RoomParams) (types.Room, error) {
	args := m.Called(ctx, token, params)
	return args.Get(0).(types.Room), args.Error(1)
}
func (m *MockRoomsAPI) Update(ctx context.Context, token string, roomId int, roomName string) (types.Room, error) {
	args := m.Called(ctx, token, roomId, roomName)
	return args.Get(0).(types.Room), args.Error(1)
}
func (m *MockRoomsAPI) Delete(ctx context.Context, token string, roomId int) error {
	args := m.Called(ctx, token, roomId)
	return args.Error(0)
}

type MockOfficeAPI struct {
	mock.Mock
}

func (m *MockOfficeAPI) Depts(ctx context.Context) ([]types.Dept, error) {
	args := m.Called(ctx)
	depts, _ := args.Get(0).([]types.Dept)
	return depts, args.Error(1)
}
func (m *MockOfficeAPI) Jobs(ctx context.Context) ([]types.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]types.Job)
	return jobs, args.Error(1)
}
func (m *MockOfficeAPI) Register(ctx context.Context, form types.OfficeRegistration) (types.Office, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(types.Office), args.Error(1)
}
