package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	// PublicBaseURL is prepended to object keys when building artifact
	// references, e.g. a CDN or bucket website endpoint.
	PublicBaseURL string
}

// S3Provider stores artifacts in a bucket. Retention is left to bucket
// lifecycle rules rather than the in-process janitor.
type S3Provider struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
}

var _ ArtifactStore = (*S3Provider)(nil)

func NewS3Provider(cfg S3Config) (*S3Provider, error) {
	client, err := initializeS3Client(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	return &S3Provider{
		client:   client,
		uploader: manager.NewUploader(client),
		cfg:      cfg,
	}, nil
}

func (p *S3Provider) key(name string) string {
	if p.cfg.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(p.cfg.Prefix, "/") + "/" + name
}

func (p *S3Provider) Put(ctx context.Context, name string, data io.Reader) (string, error) {
	key := p.key(name)
	_, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact %s: %w", name, err)
	}
	return strings.TrimSuffix(p.cfg.PublicBaseURL, "/") + "/" + key, nil
}

func (p *S3Provider) List(ctx context.Context) ([]Artifact, error) {
	var artifacts []Artifact

	paginator := s3.NewListObjectsV2Paginator(p.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.cfg.Bucket),
		Prefix: aws.String(p.cfg.Prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list artifacts in bucket %s: %w", p.cfg.Bucket, err)
		}

		for _, obj := range page.Contents {
			artifacts = append(artifacts, Artifact{
				Name:    strings.TrimPrefix(*obj.Key, strings.TrimSuffix(p.cfg.Prefix, "/")+"/"),
				Size:    *obj.Size,
				ModTime: *obj.LastModified,
			})
		}
	}

	return artifacts, nil
}

func (p *S3Provider) Delete(ctx context.Context, name string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(p.key(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", name, err)
	}
	return nil
}

func createS3Config(endpoint, region string, creds aws.CredentialsProvider) (aws.Config, error) {
	opts := []func(*aws_config.LoadOptions) error{}

	if endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) { // nolint:staticcheck
			return aws.Endpoint{ // nolint:staticcheck
				PartitionID:       "aws",
				URL:               endpoint,
				SigningRegion:     region,
				HostnameImmutable: true, // Important for MinIO
			}, nil
		})

		opts = append(opts, aws_config.WithEndpointResolverWithOptions(resolver)) // nolint:staticcheck
	}

	if region != "" {
		opts = append(opts, aws_config.WithRegion(region))
	}

	if creds != nil {
		opts = append(opts, aws_config.WithCredentialsProvider(creds))
	}

	return aws_config.LoadDefaultConfig(context.Background(), opts...)
}

func initializeS3Client(cfg S3Config) (*s3.Client, error) {
	var creds aws.CredentialsProvider = nil
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	awsCfg, err := createS3Config(cfg.Endpoint, cfg.Region, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	if _, err := awsCfg.Credentials.Retrieve(context.Background()); err != nil {
		awsCfg, err = createS3Config(cfg.Endpoint, cfg.Region, aws.AnonymousCredentials{})
		if err != nil {
			return nil, fmt.Errorf("failed to create aws config with anonymous credentials: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Path-style addressing keeps MinIO endpoints working
		o.UsePathStyle = true
	})

	return client, nil
}
