package main

import (
	"context"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/npezzotti/go-office/internal/client"
	"github.com/npezzotti/go-office/internal/config"
	"github.com/npezzotti/go-office/internal/session"
	"github.com/npezzotti/go-office/internal/stats"
	"github.com/npezzotti/go-office/internal/store"
	"github.com/npezzotti/go-office/internal/types"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// sessionOptional marks commands that work before a user has a token.
const sessionOptional = "session-optional"

var (
	flagApiURL      string
	flagRoomsURL    string
	flagPresenceURL string
	flagToken       string
	flagTimeout     time.Duration
	flagDebug       bool
)

// app is what every command runs against, built once per invocation.
type app struct {
	cfg   *config.Config
	log   *log.Logger
	sess  *session.Static
	stats *stats.StatsUpdater
	state *store.OfficeState
}

var rt app

var rootCmd = &cobra.Command{
	Use:           "officectl",
	Short:         "Inspect and manage an office from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return rt.init(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagApiURL, "api-url", "", "office API base url (env OFFICE_API_URL)")
	pf.StringVar(&flagRoomsURL, "rooms-url", "", "rooms service base url (env OFFICE_ROOMS_URL)")
	pf.StringVar(&flagPresenceURL, "presence-url", "", "presence websocket url (env OFFICE_PRESENCE_URL)")
	pf.StringVar(&flagToken, "token", "", "access token (env OFFICE_ACCESS_TOKEN)")
	pf.DurationVar(&flagTimeout, "timeout", 0, "request timeout (env OFFICE_REQUEST_TIMEOUT)")
	pf.BoolVar(&flagDebug, "debug", false, "log every request")

	rootCmd.AddCommand(
		membersCmd(),
		todosCmd(),
		todoCmd(),
		roomsCmd(),
		roomCmd(),
		notificationsCmd(),
		deptsCmd(),
		jobsCmd(),
		registerCmd(),
		serveCmd(),
	)
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.ApiURL = flagApiURL
	}
	if flags.Changed("rooms-url") {
		cfg.RoomsURL = flagRoomsURL
	}
	if flags.Changed("presence-url") {
		cfg.PresenceURL = flagPresenceURL
	}
	if flags.Changed("token") {
		cfg.AccessToken = flagToken
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = flagTimeout
	}

	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	_, optional := cmd.Annotations[sessionOptional]
	if optional && cfg.AccessToken == "" {
		if err := cfg.ValidateEndpoints(); err != nil {
			return err
		}
		a.sess = session.NewStatic("", types.CurrentUser{})
	} else {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if a.sess, err = session.FromToken(cfg.AccessToken); err != nil {
			return err
		}
	}

	a.stats = stats.NewStatsUpdater(nil)
	api, err := client.New(client.Options{
		ApiURL:   cfg.ApiURL,
		RoomsURL: cfg.RoomsURL,
		Timeout:  cfg.RequestTimeout,
	}, logger, a.stats)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger
	a.state = store.New(logger, a.sess, api)
	a.stats.Run()
	return nil
}

func printJson(cmd *cobra.Command, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(append(b, '\n'))
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Errorf("officectl: %v", err)
		os.Exit(1)
	}
}
