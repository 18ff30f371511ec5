package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/backend"
	"github.com/jonathan/resume-analyzer/internal/career"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/demo"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/session"
	"github.com/jonathan/resume-analyzer/internal/types"
	schemafiles "github.com/jonathan/resume-analyzer/schemas"
)

// app bundles what every subcommand needs for one invocation.
type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	backend backend.Service
	session *session.Controller
	printer *observability.Printer
	out     io.Writer
}

// resolveConfig layers the built-in defaults, the config file, the environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	if rootConfigPath != "" {
		fileCfg, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = rootAPIURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = rootTimeout
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if flags.Changed("demo") {
		cfg.Demo = rootDemo
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
		Out:     cmd.ErrOrStderr(),
	})

	var svc backend.Service
	if cfg.Demo {
		d, err := demo.New()
		if err != nil {
			return nil, err
		}
		svc = d
		logger.Debug("using demo backend")
	} else {
		timeout, err := cfg.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		client := apiclient.New(&apiclient.Options{
			BaseURL:   cfg.APIURL,
			Timeout:   timeout,
			UserAgent: apiclient.DefaultUserAgent,
			Logger:    logger,
		})
		svc = backend.New(client)
		logger.WithFields(logrus.Fields{
			"api_url": cfg.APIURL,
			"timeout": cfg.Timeout,
		}).Debug("using remote backend")
	}

	out := cmd.OutOrStdout()
	return &app{
		cfg:     cfg,
		logger:  logger,
		backend: svc,
		session: session.New(svc, logger),
		printer: observability.NewPrinter(out),
		out:     out,
	}, nil
}

// loadResume puts a resume into the session. A .json path is read as a saved
// profile (see upload --out); anything else is uploaded as a document.
func (a *app) loadResume(ctx context.Context, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read profile %s: %w", path, err)
		}
		if err := schemas.Validate(schemafiles.ResumeProfile, data); err != nil {
			return fmt.Errorf("invalid profile %s: %w", path, err)
		}
		var profile types.ResumeProfile
		if err := json.Unmarshal(data, &profile); err != nil {
			return fmt.Errorf("failed to unmarshal profile %s: %w", path, err)
		}
		if err := a.session.SetProfile(profile, filepath.Base(path)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}

	doc, err := resume.LoadDocument(path, "")
	if err != nil {
		return err
	}
	if _, err := a.session.Upload(ctx, doc); err != nil {
		return failure(err, resume.UploadFailedMessage)
	}
	return nil
}

// userError is printed as its user-facing message and unwraps to the cause.
type userError struct {
	message string
	cause   error
}

func (e *userError) Error() string { return e.message }

func (e *userError) Unwrap() error { return e.cause }

// failure converts err into a userError carrying the message the UI would show.
func failure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	msg := apiclient.UserMessage(err, fallback)
	if msg == "" {
		return err
	}
	return &userError{message: msg, cause: err}
}

// trackerFrom rebuilds a progress tracker from a snapshot's learned skills.
func trackerFrom(learned map[string]bool) *career.Tracker {
	t := career.NewTracker()
	for skill, done := range learned {
		if done {
			t.Toggle(skill)
		}
	}
	return t
}
