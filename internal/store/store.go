// Package store holds the client-side view of an office: its members, rooms,
// todos, notifications and reference data, kept in sync with the backend.
//
// Collections are only ever replaced wholesale by a fetch or patched by one
// element after the server accepted a change. Readers always receive copies.
package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/npezzotti/go-office/internal/client"
	"github.com/npezzotti/go-office/internal/session"
	"github.com/npezzotti/go-office/internal/types"
	log "github.com/sirupsen/logrus"
)

type OfficeState struct {
	log  *log.Logger
	sess session.Session
	api  client.API

	mu            sync.RWMutex
	notifications []types.Notification
	todos         []types.Todo
	members       []types.Member
	rooms         []types.Room
	depts         []types.Dept
	jobs          []types.Job
}

func New(logger *log.Logger, sess session.Session, api client.API) *OfficeState {
	return &OfficeState{
		log:           logger,
		sess:          sess,
		api:           api,
		notifications: []types.Notification{},
		todos:         []types.Todo{},
		members:       []types.Member{},
		rooms:         []types.Room{},
		depts:         []types.Dept{},
		jobs:          []types.Job{},
	}
}

// clone copies a collection, never returning nil so empty views encode as [].
func clone[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

func (s *OfficeState) SetNotifications(notis []types.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = clone(notis)
}

func (s *OfficeState) SetTodos(todos []types.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = clone(todos)
}

// SetMembers replaces the member list. Presence is reset for everyone and must
// be re-applied with UpdateConnectionOfMembers.
func (s *OfficeState) SetMembers(members []types.Member) {
	next := clone(members)
	for i := range next {
		next[i].Connected = false
		next[i].RoomId = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = next
}

func (s *OfficeState) SetRooms(rooms []types.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = clone(rooms)
}

func (s *OfficeState) SetDepts(depts []types.Dept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depts = clone(depts)
}

func (s *OfficeState) SetJobs(jobs []types.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = clone(jobs)
}

// UpdateProfileOfMembers merges the non-empty profile fields of updated into
// the member with the same user id. Presence fields are left alone.
func (s *OfficeState) UpdateProfileOfMembers(updated types.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.members {
		m := &s.members[i]
		if m.UserId != updated.UserId {
			continue
		}
		if updated.OfficeId != 0 {
			m.OfficeId = updated.OfficeId
		}
		if updated.Name != "" {
			m.Name = updated.Name
		}
		if updated.Email != "" {
			m.Email = updated.Email
		}
		if updated.ProfileImage != "" {
			m.ProfileImage = updated.ProfileImage
		}
		if updated.DeptName != "" {
			m.DeptName = updated.DeptName
		}
		if updated.JobName != "" {
			m.JobName = updated.JobName
		}
	}
}

func (s *OfficeState) UpdateMemberProfileImage(userId int, image string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.members {
		if s.members[i].UserId == userId {
			s.members[i].ProfileImage = image
		}
	}
}

// UpdateConnectionOfMembers marks exactly the members present in the map as
// connected, placing each in its reported room. Everyone else is disconnected.
func (s *OfficeState) UpdateConnectionOfMembers(presence map[int]types.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.members {
		m := &s.members[i]
		if conn, ok := presence[m.UserId]; ok {
			m.Connected = true
			m.RoomId = conn.RoomId
		} else {
			m.Connected = false
			m.RoomId = 0
		}
	}
}

func (s *OfficeState) Notifications() []types.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.notifications)
}

func (s *OfficeState) Todos() []types.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.todos)
}

func (s *OfficeState) Members() []types.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.members)
}

func (s *OfficeState) Rooms() []types.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.rooms)
}

func (s *OfficeState) Depts() []types.Dept {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.depts)
}

func (s *OfficeState) Jobs() []types.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.jobs)
}

// LobbyId returns the id of the first room, which is the office lobby.
func (s *OfficeState) LobbyId() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.rooms) == 0 {
		return 0, false
	}
	return s.rooms[0].RoomId, true
}

// SortedMembersByOnline returns the members with connected ones first,
// otherwise keeping their order.
func (s *OfficeState) SortedMembersByOnline() []types.Member {
	members := s.Members()
	slices.SortStableFunc(members, func(a, b types.Member) int {
		switch {
		case a.Connected == b.Connected:
			return 0
		case a.Connected:
			return -1
		default:
			return 1
		}
	})
	return members
}

// SortedTodosByDone returns open todos before done ones, most recent day first
// within each group.
func (s *OfficeState) SortedTodosByDone() []types.Todo {
	todos := s.Todos()
	slices.SortStableFunc(todos, func(a, b types.Todo) int {
		if a.Done != b.Done {
			if a.Done {
				return 1
			}
			return -1
		}
		return strings.Compare(b.Day, a.Day)
	})
	return todos
}
