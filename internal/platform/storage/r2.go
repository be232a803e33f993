// Copyright (c) 2026 Maria. All rights reserved.

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config carries the credentials and addressing for a Cloudflare R2 bucket.
type R2Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	PublicDomain string
}

// R2Uploader stores objects in Cloudflare R2 via the S3-compatible API.
type R2Uploader struct {
	client       *s3.Client
	bucket       string
	publicDomain string
}

// NewR2Uploader builds an S3 client pointed at the R2 endpoint.
func NewR2Uploader(ctx context.Context, cfg R2Config) (*R2Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
		// R2 does not support virtual-hosted bucket addressing.
		options.UsePathStyle = true
	})

	return &R2Uploader{
		client:       client,
		bucket:       cfg.Bucket,
		publicDomain: strings.TrimRight(cfg.PublicDomain, "/"),
	}, nil
}

// Upload stores the object and returns its public URL on the CDN domain.
func (uploader *R2Uploader) Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {
	_, err := uploader.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(uploader.bucket),
		Key:         aws.String(fileName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload %q: %w", fileName, err)
	}

	return uploader.publicDomain + "/" + fileName, nil
}
