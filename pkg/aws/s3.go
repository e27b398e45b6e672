package aws

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// NewS3Client creates an S3 client. Path-style addressing is used when a
// custom endpoint (LocalStack, MinIO) is configured.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = CustomEndpoint() != ""
	})
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Bucket stores objects under a key prefix of one S3 bucket.
type Bucket struct {
	client *s3.Client
	name   string
	prefix string
}

func NewBucket(client *s3.Client, name, prefix string) *Bucket {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Bucket{client: client, name: name, prefix: prefix}
}

// ObjectKey returns the full key for a file name under the bucket prefix.
func (b *Bucket) ObjectKey(name string) string {
	return b.prefix + name
}

func (b *Bucket) Put(ctx context.Context, name, contentType string, size int64, body io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        sdkaws.String(b.name),
		Key:           sdkaws.String(b.ObjectKey(name)),
		Body:          body,
		ContentType:   sdkaws.String(contentType),
		ContentLength: sdkaws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", name, err)
	}
	return nil
}

// List returns objects under the prefix, newest first. Names are relative to the prefix.
func (b *Bucket) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: sdkaws.String(b.name),
		Prefix: sdkaws.String(b.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, toObjectInfo(obj, b.prefix))
		}
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	return objects, nil
}

func (b *Bucket) Delete(ctx context.Context, name string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(b.name),
		Key:    sdkaws.String(b.ObjectKey(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

// GeneratePresignedGetURL returns a time-limited download URL for a private bucket.
func (b *Bucket) GeneratePresignedGetURL(ctx context.Context, name string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(b.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: sdkaws.String(b.name),
		Key:    sdkaws.String(b.ObjectKey(name)),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign get object: %w", err)
	}
	return req.URL, nil
}

func toObjectInfo(obj types.Object, prefix string) ObjectInfo {
	info := ObjectInfo{Key: strings.TrimPrefix(sdkaws.ToString(obj.Key), prefix)}
	if obj.Size != nil {
		info.Size = *obj.Size
	}
	if obj.LastModified != nil {
		info.LastModified = *obj.LastModified
	}
	return info
}
