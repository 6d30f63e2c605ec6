package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/npezzotti/go-office/internal/types"
)

type NotificationsAPI interface {
	List(ctx context.Context, token string) ([]types.Notification, error)
	Delete(ctx context.Context, token string, notiId int) error
}

type TodosAPI interface {
	List(ctx context.Context, token string, userId int) ([]types.Todo, error)
	Create(ctx context.Context, token string, params types.TodoParams) (types.Todo, error)
	Delete(ctx context.Context, token string, todoId int) error
	Toggle(ctx context.Context, token string, todoId int) error
}

type UsersAPI interface {
	List(ctx context.Context, token string, officeId int) ([]types.Member, error)
	Get(ctx context.Context, token string, userId int) (types.Member, error)
}

type RoomsAPI interface {
	List(ctx context.Context, token string, officeId int) ([]types.Room, error)
	Create(ctx context.Context, token string, params types.RoomParams) (types.Room, error)
	Update(ctx context.Context, token string, roomId int, roomName string) (types.Room, error)
	Delete(ctx context.Context, token string, roomId int) error
}

type OfficeAPI interface {
	Depts(ctx context.Context) ([]types.Dept, error)
	Jobs(ctx context.Context) ([]types.Job, error)
	Register(ctx context.Context, form types.OfficeRegistration) (types.Office, error)
}

func idPath(id int) string {
	return strconv.Itoa(id)
}

type NotificationsClient struct {
	res *resource
}

func (c *NotificationsClient) List(ctx context.Context, token string) ([]types.Notification, error) {
	var notis []types.Notification
	err := c.res.do(ctx, call{method: http.MethodGet, token: token, out: &notis})
	return notis, err
}

func (c *NotificationsClient) Delete(ctx context.Context, token string, notiId int) error {
	return c.res.do(ctx, call{method: http.MethodDelete, path: idPath(notiId), token: token})
}

type TodosClient struct {
	res *resource
}

func (c *TodosClient) List(ctx context.Context, token string, userId int) ([]types.Todo, error) {
	var todos []types.Todo
	err := c.res.do(ctx, call{
		method: http.MethodGet,
		query:  url.Values{"userId": {strconv.Itoa(userId)}},
		token:  token,
		out:    &todos,
	})
	return todos, err
}

func (c *TodosClient) Create(ctx context.Context, token string, params types.TodoParams) (types.Todo, error) {
	var todo types.Todo
	err := c.res.do(ctx, call{method: http.MethodPost, token: token, in: params, out: &todo})
	return todo, err
}

func (c *TodosClient) Delete(ctx context.Context, token string, todoId int) error {
	return c.res.do(ctx, call{method: http.MethodDelete, path: idPath(todoId), token: token})
}

// Toggle flips the done state of a todo on the server. The endpoint takes no
// body and its response is not used.
func (c *TodosClient) Toggle(ctx context.Context, token string, todoId int) error {
	return c.res.do(ctx, call{method: http.MethodPut, path: idPath(todoId), token: token})
}

type UsersClient struct {
	res *resource
}

func (c *UsersClient) List(ctx context.Context, token string, officeId int) ([]types.Member, error) {
	var members []types.Member
	err := c.res.do(ctx, call{
		method: http.MethodGet,
		query:  url.Values{"officeId": {strconv.Itoa(officeId)}},
		token:  token,
		out:    &members,
	})
	return members, err
}

func (c *UsersClient) Get(ctx context.Context, token string, userId int) (types.Member, error) {
	var member types.Member
	err := c.res.do(ctx, call{method: http.MethodGet, path: idPath(userId), token: token, out: &member})
	return member, err
}

type RoomsClient struct {
	res *resource
}

func (c *RoomsClient) List(ctx context.Context, token string, officeId int) ([]types.Room, error) {
	var rooms []types.Room
	err := c.res.do(ctx, call{
		method: http.MethodGet,
		query:  url.Values{"officeId": {strconv.Itoa(officeId)}},
		token:  token,
		out:    &rooms,
	})
	return rooms, err
}

func (c *RoomsClient) Create(ctx context.Context, token string, params types.RoomParams) (types.Room, error) {
	var room types.Room
	err := c.res.do(ctx, call{method: http.MethodPost, token: token, in: params, out: &room})
	return room, err
}

func (c *RoomsClient) Update(ctx context.Context, token string, roomId int, roomName string) (types.Room, error) {
	var room types.Room
	err := c.res.do(ctx, call{
		method: http.MethodPut,
		path:   idPath(roomId),
		token:  token,
		in:     types.RoomParams{RoomName: roomName},
		out:    &room,
	})
	return room, err
}

func (c *RoomsClient) Delete(ctx context.Context, token string, roomId int) error {
	return c.res.do(ctx, call{method: http.MethodDelete, path: idPath(roomId), token: token})
}

// OfficeClient serves the organisation metadata used before a user has a
// session, so its calls carry no access token.
type OfficeClient struct {
	res *resource
}

func (c *OfficeClient) Depts(ctx context.Context) ([]types.Dept, error) {
	var depts []types.Dept
	err := c.res.do(ctx, call{method: http.MethodGet, path: "depts", out: &depts})
	return depts, err
}

func (c *OfficeClient) Jobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	err := c.res.do(ctx, call{method: http.MethodGet, path: "jobs", out: &jobs})
	return jobs, err
}

func (c *OfficeClient) Register(ctx context.Context, form types.OfficeRegistration) (types.Office, error) {
	var office types.Office
	err := c.res.do(ctx, call{method: http.MethodPost, in: form, out: &office})
	return office, err
}
