// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client that
// mirrors uploaded images to a bucket. It wraps the AWS SDK v2 and is
// configured for path-style access so it works against CEPH, MinIO and
// Hetzner as well as AWS.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client bound to a single public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for mirrored files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without a mirror.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object under key with a public-read ACL so the site can
// link to it directly.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL of a mirrored object.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Bucket returns the name of the mirror bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
