// Package notify sends the per-run summary and failure emails through
// AWS SES.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
)

// RunSummary is the payload rendered into the summary email.
type RunSummary struct {
	RunID       string
	StartedAt   time.Time
	Elapsed     time.Duration
	Processed   int
	Skipped     int
	Failed      int
	PerCategory map[string]int
	Errors      []FileError
}

// FileError pairs a failed file with its reason.
type FileError struct {
	File   string
	Reason string
}

// SESAPI is the slice of the SES client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Notifier renders and sends run emails. A nil client disables sending,
// which keeps local runs quiet without conditional wiring upstream.
type Notifier struct {
	client    SESAPI
	templates *Templates
	from      string
	fromName  string
	to        []string
}

// Config for the notifier.
type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	From      string
	FromName  string
	To        []string
}

// New builds a notifier. Missing credentials leave it in disabled mode.
func New(ctx context.Context, cfg Config) (*Notifier, error) {
	n := &Notifier{
		templates: NewTemplates(),
		from:      cfg.From,
		fromName:  cfg.FromName,
		to:        cfg.To,
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" || len(cfg.To) == 0 {
		logger.Info("email notifications disabled")
		return n, nil
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for SES: %w", err)
	}
	n.client = sesv2.NewFromConfig(awsCfg)
	return n, nil
}

// NewWithClient wires an explicit client, used by tests.
func NewWithClient(client SESAPI, cfg Config) *Notifier {
	return &Notifier{
		client:    client,
		templates: NewTemplates(),
		from:      cfg.From,
		fromName:  cfg.FromName,
		to:        cfg.To,
	}
}

// Enabled reports whether sending is wired up.
func (n *Notifier) Enabled() bool {
	return n.client != nil && len(n.to) > 0
}

// SendRunSummary emails the per-run digest.
func (n *Notifier) SendRunSummary(ctx context.Context, summary RunSummary) error {
	if !n.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("LinkedIn analytics import: %d processed, %d failed",
		summary.Processed, summary.Failed)
	html, err := n.templates.RenderSummary(summary)
	if err != nil {
		return fmt.Errorf("failed to render summary email: %w", err)
	}
	return n.send(ctx, subject, html)
}

// SendFailure emails an alert for a run that could not complete at all.
func (n *Notifier) SendFailure(ctx context.Context, runID string, runErr error) error {
	if !n.Enabled() {
		return nil
	}

	html, err := n.templates.RenderFailure(runID, runErr)
	if err != nil {
		return fmt.Errorf("failed to render failure email: %w", err)
	}
	return n.send(ctx, "LinkedIn analytics import FAILED", html)
}

func (n *Notifier) send(ctx context.Context, subject, html string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", n.fromName, n.from)),
		Destination:      &types.Destination{ToAddresses: n.to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	logger.Info("notification sent", "subject", subject, "recipients", len(n.to))
	return nil
}
