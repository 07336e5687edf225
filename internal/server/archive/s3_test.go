package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/tsn/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	posts []models.Post
	err   error
}

func (f *fakeSource) Timeline(context.Context, string) ([]models.Post, error) {
	return f.posts, f.err
}

var testSettings = Settings{
	Bucket:       "tsn",
	Region:       "us-east-1",
	BaseEndpoint: "http://127.0.0.1:9000",
	RootUser:     "minioadmin",
	RootPassword: "minioadmin",
}

func stubS3(t *testing.T, put func(in *s3.PutObjectInput) error) *int {
	t.Helper()
	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})

	loads := 0
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		loads++
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if err := put(in); err != nil {
			return nil, err
		}
		return &s3.PutObjectOutput{}, nil
	}
	return &loads
}

func TestArchive_UploadsJSONLines(t *testing.T) {
	var gotKey, gotBody string
	loads := stubS3(t, func(in *s3.PutObjectInput) error {
		assert.Equal(t, "tsn", aws.ToString(in.Bucket))
		gotKey = aws.ToString(in.Key)
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		gotBody = string(b)
		return nil
	})

	src := &fakeSource{posts: []models.Post{
		{Sender: "alice", Text: "one", Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Sender: "bob", Text: "two", Timestamp: time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC)},
	}}
	a := NewS3Archiver(testSettings, src)
	a.now = func() time.Time { return time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, a.Archive(context.Background(), "bob"))
	require.NoError(t, a.Archive(context.Background(), "bob"))

	assert.True(t, strings.HasPrefix(gotKey, "timelines/bob/2024/03/07/"), gotKey)
	assert.True(t, strings.HasSuffix(gotKey, ".jsonl"))
	lines := strings.Split(strings.TrimSpace(gotBody), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"text":"one"`)
	assert.Equal(t, 1, *loads)
}

func TestArchive_DisabledOrEmpty(t *testing.T) {
	stubS3(t, func(*s3.PutObjectInput) error {
		t.Fatal("nothing should be uploaded")
		return nil
	})

	a := NewS3Archiver(Settings{}, &fakeSource{posts: []models.Post{{Text: "x"}}})
	require.NoError(t, a.Archive(context.Background(), "alice"))

	a = NewS3Archiver(testSettings, &fakeSource{})
	require.NoError(t, a.Archive(context.Background(), "alice"))
}

func TestArchive_Errors(t *testing.T) {
	stubS3(t, func(*s3.PutObjectInput) error { return errors.New("denied") })

	a := NewS3Archiver(testSettings, &fakeSource{err: errors.New("read")})
	require.ErrorContains(t, a.Archive(context.Background(), "alice"), "read timeline")

	a = NewS3Archiver(testSettings, &fakeSource{posts: []models.Post{{Text: "x"}}})
	require.ErrorContains(t, a.Archive(context.Background(), "alice"), "denied")
}

func TestArchive_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	a := NewS3Archiver(testSettings, &fakeSource{posts: []models.Post{{Text: "x"}}})
	require.ErrorContains(t, a.Archive(context.Background(), "alice"), "s3 client")
}

func TestKey(t *testing.T) {
	k1 := Key("alice", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	k2 := Key("alice", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(k1, "timelines/alice/2024/12/01/"))
	assert.NotEqual(t, k1, k2)
}
