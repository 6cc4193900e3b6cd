// Package wizard drives the interactive first-run configuration form.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/imamik/farmkit/internal/config"
)

// tableNameRegex matches the DynamoDB table-name character set.
var tableNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,255}$`)

var regionOptions = []huh.Option[string]{
	huh.NewOption("us-east-1 (N. Virginia)", "us-east-1"),
	huh.NewOption("us-west-2 (Oregon)", "us-west-2"),
	huh.NewOption("eu-west-1 (Ireland)", "eu-west-1"),
	huh.NewOption("eu-central-1 (Frankfurt)", "eu-central-1"),
	huh.NewOption("ap-southeast-2 (Sydney)", "ap-southeast-2"),
	huh.NewOption("ap-northeast-1 (Tokyo)", "ap-northeast-1"),
}

// Run walks the user through the required settings and returns a
// complete, validated configuration. The context cancels the form.
func Run(ctx context.Context) (*config.Config, error) {
	cfg := config.Default()
	cfg.Region = "us-west-2"

	enableAudit := false
	attemptsInput := strconv.Itoa(cfg.ImportRetry.MaxAttempts)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Description("Region the tracking table and certificates live in").
				Options(regionOptions...).
				Value(&cfg.Region),
			huh.NewInput().
				Title("Tracking Table").
				Description("DynamoDB table used to track imported resources").
				Placeholder("farm-resource-tracking").
				Value(&cfg.TableName).
				Validate(validateTableName),
		).Title("Deployment"),
		huh.NewGroup(
			huh.NewInput().
				Title("Import Retry Attempts").
				Description("Attempt budget for throttled certificate imports").
				Value(&attemptsInput).
				Validate(validateAttempts),
			huh.NewConfirm().
				Title("Audit Trail").
				Description("Record every lifecycle invocation to an S3 bucket?").
				Value(&enableAudit),
		).Title("Behavior"),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}

	if enableAudit {
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Audit Bucket").
					Placeholder("my-farm-audit-trail").
					Value(&cfg.AuditBucket).
					Validate(requireNonEmpty("bucket name")),
			).Title("Audit Trail"),
		).RunWithContext(ctx); err != nil {
			return nil, err
		}
	}

	attempts, err := strconv.Atoi(attemptsInput)
	if err != nil {
		return nil, fmt.Errorf("retry attempts: %w", err)
	}
	cfg.ImportRetry.MaxAttempts = attempts

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateTableName(name string) error {
	if !tableNameRegex.MatchString(name) {
		return errors.New("3-255 letters, digits, dot, dash or underscore")
	}
	return nil
}

func validateAttempts(in string) error {
	n, err := strconv.Atoi(in)
	if err != nil || n < 1 || n > 50 {
		return errors.New("enter a number between 1 and 50")
	}
	return nil
}

func requireNonEmpty(what string) func(string) error {
	return func(in string) error {
		if in == "" {
			return errors.New(what + " is required")
		}
		return nil
	}
}
