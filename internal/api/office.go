package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/go-office/internal/config"
	"github.com/npezzotti/go-office/internal/session"
	"github.com/npezzotti/go-office/internal/types"
	log "github.com/sirupsen/logrus"
)

// Store is the part of the office state the view server reads and drives.
type Store interface {
	SortedMembersByOnline() []types.Member
	SortedTodosByDone() []types.Todo
	Rooms() []types.Room
	LobbyId() (int, bool)
	Notifications() []types.Notification
	Depts() []types.Dept
	Jobs() []types.Job

	GetNotifications(ctx context.Context) error
	GetMembers(ctx context.Context) error
	GetRooms(ctx context.Context) error
	GetTodos(ctx context.Context, userId int) ([]types.Todo, error)
	GetDepts(ctx context.Context) ([]types.Dept, error)
	GetJobs(ctx context.Context) ([]types.Job, error)

	CreateRoom(ctx context.Context, params types.RoomParams) (types.Room, error)
	EditRoom(ctx context.Context, roomId int, roomName string) (types.Room, error)
	DeleteRoom(ctx context.Context, roomId int) error
	CreateTodo(ctx context.Context, params types.TodoParams) (types.Todo, error)
	ToggleTodoDone(ctx context.Context, todoId int) error
	DeleteTodo(ctx context.Context, todoId int) error
	DeleteNotification(ctx context.Context, notiId int) error
}

type OfficeApp struct {
	log   *log.Logger
	store Store
	sess  session.Session
	srv   *http.Server
}

func NewOfficeApp(mux *http.ServeMux, logger *log.Logger, st Store, sess session.Session, cfg *config.Config) *OfficeApp {
	s := &OfficeApp{
		log:   logger,
		store: st,
		sess:  sess,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("GET /api/office/members", s.noStore(s.getMembers))
	mux.HandleFunc("GET /api/office/todos", s.noStore(s.getTodos))
	mux.HandleFunc("POST /api/office/todos", s.createTodo)
	mux.HandleFunc("PUT /api/office/todos/{id}/toggle", s.toggleTodo)
	mux.HandleFunc("DELETE /api/office/todos/{id}", s.deleteTodo)
	mux.HandleFunc("GET /api/office/rooms", s.noStore(s.getRooms))
	mux.HandleFunc("POST /api/office/rooms", s.createRoom)
	mux.HandleFunc("PUT /api/office/rooms/{id}", s.editRoom)
	mux.HandleFunc("DELETE /api/office/rooms/{id}", s.deleteRoom)
	mux.HandleFunc("GET /api/office/lobby", s.noStore(s.getLobby))
	mux.HandleFunc("GET /api/office/notifications", s.noStore(s.getNotifications))
	mux.HandleFunc("DELETE /api/office/notifications/{id}", s.deleteNotification)
	mux.HandleFunc("GET /api/office/depts", s.noStore(s.getDepts))
	mux.HandleFunc("GET /api/office/jobs", s.noStore(s.getJobs))
	mux.HandleFunc("POST /api/office/refresh", s.refreshHandler)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
	)(mux)

	h = s.errorHandler(h)

	s.srv = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return s
}

func (s *OfficeApp) Handler() http.Handler {
	return s.srv.Handler
}

func (s *OfficeApp) Start() error {
	s.log.Printf("starting server on %s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *OfficeApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
