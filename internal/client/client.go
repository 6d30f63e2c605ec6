package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/npezzotti/go-office/internal/stats"
	log "github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "office.client"

	accessTokenHeader = "accessToken"
	requestIdHeader   = "X-Request-Id"
)

var errEmptyResponse = errors.New("empty response body")

type Options struct {
	ApiURL     string
	RoomsURL   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// API groups one client per resource family. Fields are interfaces so tests
// can substitute any of them.
type API struct {
	Notifications NotificationsAPI
	Todos         TodosAPI
	Users         UsersAPI
	Rooms         RoomsAPI
	Office        OfficeAPI
}

// New builds the resource clients. Every resource shares one http.Client.
func New(opts Options, logger *log.Logger, st stats.StatsProvider) (API, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if st == nil {
		st = stats.NopStats{}
	}

	r := &requester{
		http:   httpClient,
		log:    logger,
		stats:  st,
		tracer: otel.Tracer(tracerName),
	}

	var (
		api API
		err error
	)
	newResource := func(name, base string, elem ...string) *resource {
		if err != nil {
			return nil
		}
		var res *resource
		res, err = r.resource(name, base, elem...)
		return res
	}

	notis := newResource("notifications", opts.ApiURL, "api", "v1", "notifications")
	todos := newResource("todos", opts.ApiURL, "api", "v1", "todos")
	users := newResource("users", opts.ApiURL, "api", "v1", "users")
	rooms := newResource("rooms", opts.RoomsURL, "rooms")
	office := newResource("office", opts.ApiURL, "api", "v1", "office")
	if err != nil {
		return api, err
	}

	api.Notifications = &NotificationsClient{res: notis}
	api.Todos = &TodosClient{res: todos}
	api.Users = &UsersClient{res: users}
	api.Rooms = &RoomsClient{res: rooms}
	api.Office = &OfficeClient{res: office}
	return api, nil
}

type requester struct {
	http   *http.Client
	log    *log.Logger
	stats  stats.StatsProvider
	tracer trace.Tracer
}

func (r *requester) resource(name, base string, elem ...string) (*resource, error) {
	joined, err := url.JoinPath(base, elem...)
	if err != nil {
		return nil, fmt.Errorf("%s base url: %w", name, err)
	}

	u, err := url.Parse(joined)
	if err != nil {
		return nil, fmt.Errorf("%s base url: %w", name, err)
	}

	return &resource{name: name, base: u, r: r}, nil
}

// resource is one REST collection rooted at base.
type resource struct {
	name string
	base *url.URL
	r    *requester
}

type call struct {
	method string
	path   string
	query  url.Values
	token  string
	in     any
	out    any
}

func (res *resource) endpoint(path string, query url.Values) string {
	u := *res.base
	if path != "" {
		u = *u.JoinPath(path)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (res *resource) do(ctx context.Context, c call) (err error) {
	ctx, span := res.r.tracer.Start(ctx, res.name+" "+c.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("office.resource", res.name),
			attribute.String("http.request.method", c.method),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			res.r.stats.Incr(stats.ApiFailures)
		}
		span.End()
	}()
	res.r.stats.Incr(stats.ApiRequests)

	var body io.Reader
	if c.in != nil {
		b, err := sonic.ConfigStd.Marshal(c.in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", res.name, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, res.endpoint(c.path, c.query), body)
	if err != nil {
		return fmt.Errorf("new %s request: %w", res.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(accessTokenHeader, c.token)
	}
	if id, err := shortid.Generate(); err == nil {
		req.Header.Set(requestIdHeader, id)
		span.SetAttributes(attribute.String("office.request_id", id))
	}

	res.r.log.WithFields(log.Fields{
		"resource":   res.name,
		"method":     c.method,
		"url":        req.URL.Redacted(),
		"request_id": req.Header.Get(requestIdHeader),
	}).Debug("office api request")

	resp, err := res.r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.method, res.name, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", c.method, res.name, newApiError(resp))
	}

	if c.out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(c.out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyResponse
		}
		return fmt.Errorf("decode %s response: %w", res.name, err)
	}

	return nil
}
