package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	sent []*sesv2.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &sesv2.SendEmailOutput{}, nil
}

func sampleSummary() RunSummary {
	return RunSummary{
		RunID:     "run-20250828-1200",
		StartedAt: time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC),
		Elapsed:   92 * time.Second,
		Processed: 7,
		Skipped:   1,
		Failed:    1,
		PerCategory: map[string]int{
			"follower_metrics": 3,
			"visitor_metrics":  4,
		},
		Errors: []FileError{
			{File: "broken.csv", Reason: "no parseable rows"},
		},
	}
}

func testNotifier(f *fakeSES) *Notifier {
	return NewWithClient(f, Config{
		From:     "etl@example.com",
		FromName: "Analytics ETL",
		To:       []string{"marketing@example.com"},
	})
}

func TestSendRunSummary(t *testing.T) {
	f := &fakeSES{}
	err := testNotifier(f).SendRunSummary(context.Background(), sampleSummary())
	require.NoError(t, err)
	require.Len(t, f.sent, 1)

	msg := f.sent[0]
	assert.Equal(t, "Analytics ETL <etl@example.com>", aws.ToString(msg.FromEmailAddress))
	assert.Equal(t, []string{"marketing@example.com"}, msg.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(msg.Content.Simple.Subject.Data), "7 processed")

	body := aws.ToString(msg.Content.Simple.Body.Html.Data)
	assert.Contains(t, body, "run-20250828-1200")
	assert.Contains(t, body, "follower_metrics: 3")
	assert.Contains(t, body, "broken.csv")
}

func TestSendFailure(t *testing.T) {
	f := &fakeSES{}
	err := testNotifier(f).SendFailure(context.Background(), "run-1", errors.New("S3 listing failed"))
	require.NoError(t, err)
	require.Len(t, f.sent, 1)

	body := aws.ToString(f.sent[0].Content.Simple.Body.Html.Data)
	assert.Contains(t, body, "S3 listing failed")
	assert.Contains(t, body, "retried on the next")
}

func TestDisabledNotifierIsSilent(t *testing.T) {
	n := NewWithClient(nil, Config{})
	assert.False(t, n.Enabled())
	assert.NoError(t, n.SendRunSummary(context.Background(), sampleSummary()))
	assert.NoError(t, n.SendFailure(context.Background(), "run-1", errors.New("boom")))
}

func TestSendErrorSurfaces(t *testing.T) {
	f := &fakeSES{err: errors.New("throttled")}
	err := testNotifier(f).SendRunSummary(context.Background(), sampleSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestRenderSummaryWithoutErrorsOmitsSection(t *testing.T) {
	s := sampleSummary()
	s.Errors = nil

	body, err := NewTemplates().RenderSummary(s)
	require.NoError(t, err)
	assert.NotContains(t, body, "Errors")
}
