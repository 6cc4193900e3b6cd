package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/imamik/farmkit/internal/certificate"
	"github.com/imamik/farmkit/internal/config"
	"github.com/imamik/farmkit/internal/lifecycle"
	"github.com/imamik/farmkit/internal/util/backoff"
)

// HandleOptions carries the handle command's inputs.
type HandleOptions struct {
	ConfigPath string
	EventPath  string
	NoRespond  bool
	Out        io.Writer
}

// Function variables for dependency injection in tests.
var (
	stdin     io.Reader           = os.Stdin
	responder lifecycle.Responder = lifecycle.NewHTTPResponder()
)

// Handle processes one lifecycle event end to end: parse, dispatch,
// audit, report to the ResponseURL, and print the terminal response.
func Handle(ctx context.Context, opts HandleOptions) error {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	event, err := readEvent(opts.EventPath)
	if err != nil {
		return err
	}

	c, err := buildClients(ctx, cfg, log)
	if err != nil {
		return err
	}

	importer := certificate.NewImporter(c.certs, c.store, c.secrets, log,
		certificate.WithImportBackoff(backoffFactory(cfg.ImportRetry)),
		certificate.WithDeleteBackoff(backoffFactory(cfg.DeleteWait)),
	)

	resp := lifecycle.Dispatch(ctx, importer, event, log)

	c.recorder.Record(ctx, event, resp)

	if event.ResponseURL != "" && !opts.NoRespond {
		if err := responder.Respond(ctx, event, resp); err != nil {
			return fmt.Errorf("failed to report lifecycle result: %w", err)
		}
	}

	enc := json.NewEncoder(opts.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}

	if resp.Status == lifecycle.StatusFailed {
		return fmt.Errorf("lifecycle event failed: %s", resp.Reason)
	}
	return nil
}

func readEvent(path string) (lifecycle.Event, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		// #nosec G304
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return lifecycle.Event{}, fmt.Errorf("failed to read event: %w", err)
	}
	return lifecycle.ParseEvent(data)
}

func backoffFactory(rc config.RetryConfig) certificate.BackoffFactory {
	return func() *backoff.Generator {
		return backoff.New(
			backoff.WithMaxAttempts(rc.MaxAttempts),
			backoff.WithBaseDelay(rc.BaseDelay),
			backoff.WithMaxDelay(rc.MaxDelay),
		)
	}
}
