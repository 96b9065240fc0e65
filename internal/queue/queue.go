// Package queue reads the inbound S3 drop folder that LinkedIn exports
// land in, and archives files once they have been ingested.
package queue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
)

// File size sanity bounds. Below the floor is an empty or truncated
// upload; above the ceiling is not a LinkedIn analytics export. The
// ceiling is the default and can be raised per deployment.
const (
	MinFileSize = 100
	MaxFileSize = 10 * 1024 * 1024
)

var allowedExtensions = map[string]bool{
	".csv": true,
	".txt": true,
	".tsv": true,
}

// ReportFile is one inbound object awaiting ingestion.
type ReportFile struct {
	Key          string
	Name         string
	Size         int64
	LastModified time.Time
}

// Validate rejects files the pipeline should not even attempt. A
// maxSize of zero falls back to the default ceiling.
func (f ReportFile) Validate(maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	ext := strings.ToLower(path.Ext(f.Name))
	if !allowedExtensions[ext] {
		return fmt.Errorf("unsupported file extension %q", ext)
	}
	if f.Size < MinFileSize {
		return fmt.Errorf("file too small (%d bytes), likely empty or truncated", f.Size)
	}
	if f.Size > maxSize {
		return fmt.Errorf("file too large (%d bytes)", f.Size)
	}
	return nil
}

// S3API is the slice of the S3 client the queue uses.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Queue lists, fetches, and archives inbound report files.
type Queue struct {
	client          S3API
	bucket          string
	inboundPrefix   string
	processedPrefix string
	maxFileSize     int64
	titleCaser      cases.Caser
}

// Config for the inbound queue.
type Config struct {
	Bucket          string
	Region          string
	Profile         string
	InboundPrefix   string
	ProcessedPrefix string
	MaxFileSize     int64
}

// New builds a queue against real S3. Credentials come from the default
// chain, or from the named shared-config profile when one is set.
func New(ctx context.Context, cfg Config) (*Queue, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewWithClient wires an explicit client, used by tests.
func NewWithClient(client S3API, cfg Config) *Queue {
	processed := cfg.ProcessedPrefix
	if processed == "" {
		processed = "processed/"
	}
	return &Queue{
		client:          client,
		bucket:          cfg.Bucket,
		inboundPrefix:   cfg.InboundPrefix,
		processedPrefix: processed,
		maxFileSize:     cfg.MaxFileSize,
		titleCaser:      cases.Title(language.English),
	}
}

// List returns validated inbound files, oldest first, so the archive
// sequence reflects upload order. Invalid files are logged and skipped
// rather than blocking the batch.
func (q *Queue) List(ctx context.Context) ([]ReportFile, error) {
	var files []ReportFile
	var token *string

	for {
		out, err := q.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(q.bucket),
			Prefix:            aws.String(q.inboundPrefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list inbound files: %w", err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			f := ReportFile{
				Key:          key,
				Name:         path.Base(key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			}
			if err := f.Validate(q.maxFileSize); err != nil {
				logger.Warn("skipping invalid inbound file", "key", key, "error", err.Error())
				continue
			}
			files = append(files, f)
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].LastModified.Before(files[j].LastModified)
	})
	return files, nil
}

// Fetch downloads one file's full contents.
func (q *Queue) Fetch(ctx context.Context, key string) (string, error) {
	out, err := q.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(q.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

// Archive moves a processed file out of the inbound prefix. The archived
// name carries a zero-padded sequence plus a readable category so the
// folder sorts in processing order: processed/00042-Follower Metrics.csv.
func (q *Queue) Archive(ctx context.Context, file ReportFile, category string, sequence int) error {
	dest := q.ArchiveKey(category, sequence)

	_, err := q.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(q.bucket),
		CopySource: aws.String(q.bucket + "/" + file.Key),
		Key:        aws.String(dest),
	})
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", file.Key, dest, err)
	}

	_, err = q.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(q.bucket),
		Key:    aws.String(file.Key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s after copy: %w", file.Key, err)
	}

	logger.Info("archived file", "from", file.Key, "to", dest)
	return nil
}

// ArchiveKey builds the destination key for one processed file.
func (q *Queue) ArchiveKey(category string, sequence int) string {
	readable := q.titleCaser.String(strings.ReplaceAll(category, "_", " "))
	return fmt.Sprintf("%s%05d-%s.csv", q.processedPrefix, sequence, readable)
}

// PutSummary writes the run summary JSON next to the archived files.
func (q *Queue) PutSummary(ctx context.Context, key string, body []byte) error {
	_, err := q.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(q.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write summary %s: %w", key, err)
	}
	return nil
}
