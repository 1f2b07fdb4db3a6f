package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

const reportContentType = "application/x-ndjson"

// S3Config holds S3/MinIO configuration
type S3Config struct {
	Endpoint        string // e.g., "http://localhost:9000" for MinIO
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Prefix          string // key prefix for reports, e.g. "runs"
}

// objectPutter is the part of the S3 client the archive uses
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReportArchive stores run reports in an S3-compatible bucket
type ReportArchive struct {
	client objectPutter
	bucket string
	prefix string
}

// NewReportArchive creates a new S3 report archive
func NewReportArchive(cfg S3Config) *ReportArchive {
	// Create S3 client with static credentials and custom endpoint
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true, // Required for MinIO
	})

	return &ReportArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}
}

// UploadOutput represents output from uploading a report
type UploadOutput struct {
	Key        string // Object key in S3
	Location   string // s3://bucket/key
	Size       int64
	UploadedAt time.Time
}

// Upload writes the run report to the bucket
func (a *ReportArchive) Upload(ctx context.Context, run *entity.Run) (*UploadOutput, error) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, run); err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	key := ReportKey(a.prefix, run)
	size := int64(buf.Len())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(reportContentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to s3: %w", err)
	}

	return &UploadOutput{
		Key:        key,
		Location:   fmt.Sprintf("s3://%s/%s", a.bucket, key),
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

// ReportKey builds the object key for a run: {prefix}/yyyy/mm/dd/{id}.ndjson
func ReportKey(prefix string, run *entity.Run) string {
	return path.Join(
		strings.Trim(prefix, "/"),
		run.StartedAt.UTC().Format("2006/01/02"),
		run.ID+".ndjson",
	)
}

// reportSummary is the last line of a report
type reportSummary struct {
	Type string `json:"type"`
	*entity.Run
	Duration string `json:"duration"`
}

type reportAttempt struct {
	Type string `json:"type"`
	entity.Outcome
}

// WriteReport writes a run as NDJSON: one line per attempt, then a summary line
func WriteReport(w io.Writer, run *entity.Run) error {
	enc := json.NewEncoder(w)

	for _, o := range run.Outcomes {
		if err := enc.Encode(reportAttempt{Type: "attempt", Outcome: o}); err != nil {
			return err
		}
	}

	return enc.Encode(reportSummary{
		Type:     "summary",
		Run:      run,
		Duration: run.Duration().String(),
	})
}
