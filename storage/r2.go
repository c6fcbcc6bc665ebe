package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type R2Config struct {
	AccountID       string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the account endpoint, e.g. for S3-compatible test servers.
	Endpoint string
}

// R2Drive stores documents in a Cloudflare R2 bucket. A folder is a key
// prefix ending in "/" marked by an empty object of that name.
type R2Drive struct {
	client *s3.Client
	bucket string
}

func NewR2Drive(ctx context.Context, c R2Config) (*R2Drive, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("r2: bucket is required")
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		if c.AccountID == "" {
			return nil, fmt.Errorf("r2: account id is required")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKeyID,
			c.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return &R2Drive{client: client, bucket: c.Bucket}, nil
}

func folderKey(name string) string {
	return strings.TrimSuffix(name, "/") + "/"
}

func (d *R2Drive) FindFolder(ctx context.Context, name string) (string, error) {
	key := folderKey(name)
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("r2 head %s: %w", key, err)
	}
	return key, nil
}

func (d *R2Drive) CreateFolder(ctx context.Context, name string) (string, error) {
	key := folderKey(name)
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", fmt.Errorf("r2 create folder %s: %w", key, err)
	}
	return key, nil
}

// ListNames pages through every key under the folder. Deleted objects are
// gone from R2, so there is no trashed state to filter.
func (d *R2Drive) ListNames(ctx context.Context, folderID, prefix string) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(folderID + prefix),
	})
	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("r2 list %s%s: %w", folderID, prefix, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), folderID)
			if name != "" && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func (d *R2Drive) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (File, error) {
	key := folderID + name
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return File{}, err
	}
	return File{
		ID:        key,
		FolderID:  folderID,
		Name:      name,
		Size:      int64(len(content)),
		CreatedAt: time.Now().UTC(),
	}, nil
}
