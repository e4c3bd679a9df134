package cmd

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/config"
	"github.com/Tiliavir/jbstime/internal/logging"
	"github.com/Tiliavir/jbstime/internal/remote"
	"github.com/Tiliavir/jbstime/internal/storage"
	"github.com/Tiliavir/jbstime/internal/timesheet"
)

// app is what a command needs for one invocation.
type app struct {
	base    string
	log     *logrus.Logger
	out     io.Writer
	errOut  io.Writer
	prompt  *prompter
	now     func() time.Time
	session *timesheet.Session
}

func (a *app) today() time.Time { return a.session.Today() }

// newApp wires the session for cmd. Nothing touches the network until a
// command reads from the session.
func newApp(cmd *cobra.Command) (*app, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnvFile(base); err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{
		Verbose: flagVerbose,
		Format:  flagLogFormat,
		Output:  cmd.ErrOrStderr(),
	})
	a := &app{
		base:   base,
		log:    log,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		prompt: newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		now:    time.Now,
	}

	client, err := remote.NewClient(flagBaseURL,
		remote.WithCredentials(a.credentials(cmd)),
		remote.WithLogger(logging.Component(log, "remote")),
	)
	if err != nil {
		return nil, err
	}
	a.session = timesheet.NewSession(client,
		timesheet.WithHolidayStore(storage.HolidayFile{Base: base}),
		timesheet.WithClock(a.now),
		timesheet.WithLogger(logging.Component(log, "timesheet")),
	)
	return a, nil
}

// credentials resolves the login lazily so that commands which never reach
// the site never prompt.
func (a *app) credentials(cmd *cobra.Command) remote.CredentialsFunc {
	return func() (string, string, error) {
		cfg, err := config.Resolve(config.Sources{
			Flags:      cmd.Flags(),
			ConfigPath: config.FilePath(a.base),
		})
		if err != nil {
			return "", "", err
		}
		if cfg.Username == "" {
			if cfg.Username, err = a.prompt.Line("Username"); err != nil {
				return "", "", err
			}
		}
		if cfg.Password == "" {
			if cfg.Password, err = a.prompt.Password("Password"); err != nil {
				return "", "", err
			}
		}
		a.log.WithField("username", cfg.Username).Debug("resolved credentials")
		return cfg.Username, cfg.Password, nil
	}
}
