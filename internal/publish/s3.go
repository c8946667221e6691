package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cruciblehq/shipwright/internal/target"
)

// Release storage backed by an S3 bucket.
//
// Objects are keyed {prefix}/{version}/{file}. Credentials come from the
// default AWS credential chain; the orchestrator never reads them itself.
type S3 struct {
	DestName string
	Bucket   string
	Prefix   string
	Region   string

	once    sync.Once
	client  *s3.Client
	initErr error
}

func (d *S3) Name() string { return d.DestName }

func (d *S3) Push(ctx context.Context, artifact, version string, t target.Target) error {
	client, err := d.load(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(artifact)
	if err != nil {
		return fmt.Errorf("opening artifact: %w", err)
	}
	defer file.Close()

	key := path.Join(d.Prefix, version, filepath.Base(artifact))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(key),
		Body:   file,
		Metadata: map[string]string{
			"platform": string(t.Platform),
			"arch":     string(t.Arch),
			"format":   string(t.Format),
			"version":  version,
		},
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", d.Bucket, key, err)
	}
	return nil
}

// Initializes the S3 client on first use so runs without an S3 destination
// never touch AWS configuration.
func (d *S3) load(ctx context.Context) (*s3.Client, error) {
	d.once.Do(func() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if d.Region != "" {
			opts = append(opts, awsconfig.WithRegion(d.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			d.initErr = fmt.Errorf("loading aws config: %w", err)
			return
		}
		d.client = s3.NewFromConfig(cfg)
	})
	return d.client, d.initErr
}
