// Package archive copies a user's durable timeline to S3-compatible object
// storage when their session closes.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/tsn/internal/filex"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// Settings locate the bucket. An empty Bucket disables archiving.
type Settings struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	RootUser     string
	RootPassword string
}

func (s Settings) Enabled() bool { return s.Bucket != "" }

// Source supplies a user's full timeline log.
type Source interface {
	Timeline(ctx context.Context, owner string) ([]models.Post, error)
}

type S3Archiver struct {
	settings Settings
	source   Source
	codec    filex.Codec
	now      func() time.Time

	mu     sync.Mutex
	client *s3.Client
}

func NewS3Archiver(s Settings, src Source) *S3Archiver {
	return &S3Archiver{
		settings: s,
		source:   src,
		codec:    filex.JSONCodec{},
		now:      time.Now,
	}
}

// Key names the object for one archive run of owner.
func Key(owner string, t time.Time) string {
	return fmt.Sprintf("timelines/%s/%d/%02d/%02d/%v.jsonl", owner, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (a *S3Archiver) getClient(ctx context.Context) (*s3.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.settings.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.settings.RootUser,
			a.settings.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	a.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if a.settings.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(a.settings.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return a.client, nil
}

// Archive uploads owner's timeline as one JSON Lines object. Empty timelines
// are skipped.
func (a *S3Archiver) Archive(ctx context.Context, owner string) error {
	if !a.settings.Enabled() {
		return nil
	}

	posts, err := a.source.Timeline(ctx, owner)
	if err != nil {
		return fmt.Errorf("read timeline: %w", err)
	}
	if len(posts) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, p := range posts {
		line, err := a.codec.Encode(p)
		if err != nil {
			return fmt.Errorf("encode post: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	client, err := a.getClient(ctx)
	if err != nil {
		return fmt.Errorf("s3 client: %w", err)
	}

	key := Key(owner, a.now())
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.settings.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
