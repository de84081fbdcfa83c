// Package s3cache implements httpcache.Cache on top of an S3 bucket, so
// scraped registration pages survive restarts and are shared by every
// instance of the service.
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const keyPrefix = "scraper-cache"

type Cache struct {
	client *s3.Client
	bucket string
	gzip   bool
	logger *slog.Logger

	// httpcache.Cache has no context parameter; requests use this one.
	ctx context.Context
}

type Options struct {
	// Gzip compresses stored entries and appends ".gz" to their keys.
	Gzip   bool
	Logger *slog.Logger
}

// New returns a cache backed by bucket. Call Check before relying on it.
func New(ctx context.Context, client *s3.Client, bucket string, opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client: client,
		bucket: bucket,
		gzip:   opts.Gzip,
		logger: logger.With("component", "s3cache", "bucket", bucket),
		ctx:    ctx,
	}
}

// Check verifies the bucket exists and can be listed.
func (c *Cache) Check(ctx context.Context) error {
	if _, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("s3cache: head bucket %s: %w", c.bucket, err)
	}
	if _, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3cache: list objects in %s: %w", c.bucket, err)
	}
	return nil
}

func (c *Cache) Get(key string) ([]byte, bool) {
	objectKey := c.objectKey(key)
	resp, err := c.client.GetObject(c.ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "NoSuchKey" {
			c.logger.Warn("cache get failed", "key", objectKey, "error", err)
		}
		return nil, false
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if c.gzip {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.Warn("cache entry is not gzip", "key", objectKey, "error", err)
			return nil, false
		}
		defer zr.Close()
		rdr = zr
	}

	data, err := io.ReadAll(rdr)
	if err != nil {
		c.logger.Warn("cache entry read failed", "key", objectKey, "error", err)
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(key string, data []byte) {
	objectKey := c.objectKey(key)
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(data),
	}

	if c.gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			c.logger.Warn("cache entry compression failed", "key", objectKey, "error", err)
			return
		}
		if err := zw.Close(); err != nil {
			c.logger.Warn("cache entry compression failed", "key", objectKey, "error", err)
			return
		}
		input.Body = bytes.NewReader(buf.Bytes())
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.client.PutObject(c.ctx, input); err != nil {
		c.logger.Warn("cache set failed", "key", objectKey, "error", err)
	}
}

func (c *Cache) Delete(key string) {
	objectKey := c.objectKey(key)
	_, err := c.client.DeleteObject(c.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		c.logger.Warn("cache delete failed", "key", objectKey, "error", err)
	}
}

func (c *Cache) objectKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	objectKey := keyPrefix + "/" + hex.EncodeToString(sum[:])
	if c.gzip {
		objectKey += ".gz"
	}
	return objectKey
}
