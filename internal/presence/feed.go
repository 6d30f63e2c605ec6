// Package presence follows the real-time presence channel and applies each
// snapshot of connected members to the office state.
package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-office/internal/session"
	"github.com/npezzotti/go-office/internal/stats"
	"github.com/npezzotti/go-office/internal/types"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

type ConnectionUpdater interface {
	UpdateConnectionOfMembers(presence map[int]types.Connection)
}

// Frame is one presence snapshot, keyed by user id.
type Frame struct {
	Members map[string]types.Connection `json:"members"`
}

type Feed struct {
	url    string
	sess   session.Session
	target ConnectionUpdater
	log    *log.Logger
	stats  stats.StatsProvider
	dialer *websocket.Dialer
}

func NewFeed(url string, sess session.Session, target ConnectionUpdater, logger *log.Logger, st stats.StatsProvider) *Feed {
	if st == nil {
		st = stats.NopStats{}
	}

	return &Feed{
		url:    url,
		sess:   sess,
		target: target,
		log:    logger,
		stats:  st,
		dialer: websocket.DefaultDialer,
	}
}

// Run connects to the presence channel and applies frames until ctx is done
// or the server closes the connection. Either of those returns nil.
func (f *Feed) Run(ctx context.Context) error {
	header := http.Header{}
	header.Set("accessToken", f.sess.AccessToken())

	conn, _, err := f.dialer.DialContext(ctx, f.url, header)
	if err != nil {
		return fmt.Errorf("dial presence: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			conn.Close()
		case <-done:
		}
	}()

	f.log.WithField("url", f.url).Info("presence feed connected")
	conn.SetReadLimit(maxMessageSize)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				f.log.Info("presence feed closed by server")
				return nil
			}
			return fmt.Errorf("read presence: %w", err)
		}

		if err := f.apply(raw); err != nil {
			f.log.WithError(err).Warn("dropping presence frame")
		}
	}
}

func (f *Feed) apply(raw []byte) error {
	var frame Frame
	if err := sonic.Unmarshal(raw, &frame); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	if frame.Members == nil {
		return errors.New("frame has no members")
	}

	presence, err := parsePresence(frame.Members)
	if err != nil {
		return err
	}

	f.target.UpdateConnectionOfMembers(presence)
	f.stats.Incr(stats.PresenceUpdates)
	f.log.WithField("connected", len(presence)).Debug("presence applied")
	return nil
}

func parsePresence(members map[string]types.Connection) (map[int]types.Connection, error) {
	presence := make(map[int]types.Connection, len(members))
	for key, conn := range members {
		userId, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", key, err)
		}
		presence[userId] = conn
	}
	return presence, nil
}
