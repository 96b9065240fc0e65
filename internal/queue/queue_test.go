package queue

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	mtimes  map[string]time.Time

	copied  [][2]string
	deleted []string
	puts    map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: map[string]string{},
		mtimes:  map[string]time.Time{},
		puts:    map[string][]byte{},
	}
}

func (f *fakeS3) add(key, body string, mtime time.Time) {
	f.objects[key] = body
	f.mtimes[key] = mtime
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key, body := range f.objects {
		if !strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			continue
		}
		out.Contents = append(out.Contents, s3types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(body))),
			LastModified: aws.Time(f.mtimes[key]),
		})
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(_ context.Context, params *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.copied = append(f.copied, [2]string{aws.ToString(params.CopySource), aws.ToString(params.Key)})
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func testQueue(f *fakeS3) *Queue {
	return NewWithClient(f, Config{
		Bucket:        "analytics-inbound",
		InboundPrefix: "inbound/",
	})
}

func TestReportFileValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    ReportFile
		wantErr string
	}{
		{"valid csv", ReportFile{Name: "a.csv", Size: 500}, ""},
		{"valid tsv", ReportFile{Name: "a.tsv", Size: 500}, ""},
		{"valid txt uppercase", ReportFile{Name: "A.TXT", Size: 500}, ""},
		{"bad extension", ReportFile{Name: "a.xlsx", Size: 500}, "unsupported file extension"},
		{"no extension", ReportFile{Name: "README", Size: 500}, "unsupported file extension"},
		{"too small", ReportFile{Name: "a.csv", Size: 50}, "too small"},
		{"too large", ReportFile{Name: "a.csv", Size: MaxFileSize + 1}, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate(0)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestReportFileValidateConfiguredCeiling(t *testing.T) {
	big := ReportFile{Name: "a.csv", Size: 20 * 1024 * 1024}

	require.Error(t, big.Validate(0))
	assert.NoError(t, big.Validate(25*1024*1024))
}

func TestListHonorsConfiguredMaxFileSize(t *testing.T) {
	f := newFakeS3()
	f.add("inbound/huge.csv", strings.Repeat("x", 200), time.Unix(100, 0))

	q := NewWithClient(f, Config{
		Bucket:        "analytics-inbound",
		InboundPrefix: "inbound/",
		MaxFileSize:   150,
	})
	files, err := q.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListReturnsOldestFirst(t *testing.T) {
	f := newFakeS3()
	body := strings.Repeat("x", 500)
	f.add("inbound/newer.csv", body, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC))
	f.add("inbound/older.csv", body, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC))
	f.add("other/ignored.csv", body, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	files, err := testQueue(f).List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "older.csv", files[0].Name)
	assert.Equal(t, "newer.csv", files[1].Name)
}

func TestListSkipsInvalidFiles(t *testing.T) {
	f := newFakeS3()
	f.add("inbound/good.csv", strings.Repeat("x", 500), time.Now())
	f.add("inbound/empty.csv", "x", time.Now())
	f.add("inbound/notes.docx", strings.Repeat("x", 500), time.Now())
	f.add("inbound/subdir/", "", time.Now())

	files, err := testQueue(f).List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "good.csv", files[0].Name)
}

func TestFetch(t *testing.T) {
	f := newFakeS3()
	f.add("inbound/a.csv", "Date,Impressions\n2025-08-01,100", time.Now())

	q := testQueue(f)
	content, err := q.Fetch(context.Background(), "inbound/a.csv")
	require.NoError(t, err)
	assert.Contains(t, content, "Impressions")

	_, err = q.Fetch(context.Background(), "inbound/missing.csv")
	assert.Error(t, err)
}

func TestArchiveCopiesThenDeletes(t *testing.T) {
	f := newFakeS3()
	f.add("inbound/follower_metrics_aug2025.csv", strings.Repeat("x", 500), time.Now())

	q := testQueue(f)
	file := ReportFile{Key: "inbound/follower_metrics_aug2025.csv", Name: "follower_metrics_aug2025.csv", Size: 500}
	err := q.Archive(context.Background(), file, "follower_metrics", 42)
	require.NoError(t, err)

	require.Len(t, f.copied, 1)
	assert.Equal(t, "analytics-inbound/inbound/follower_metrics_aug2025.csv", f.copied[0][0])
	assert.Equal(t, "processed/00042-Follower Metrics.csv", f.copied[0][1])
	assert.Equal(t, []string{"inbound/follower_metrics_aug2025.csv"}, f.deleted)
}

func TestArchiveKey(t *testing.T) {
	q := testQueue(newFakeS3())
	assert.Equal(t, "processed/00007-Visitor Company Size.csv", q.ArchiveKey("visitor_company_size", 7))
}

func TestPutSummary(t *testing.T) {
	f := newFakeS3()
	q := testQueue(f)

	err := q.PutSummary(context.Background(), "processed/run-summary.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(f.puts["processed/run-summary.json"]))
}
