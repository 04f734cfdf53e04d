package fetch

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/config"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

func newS3Client(cfg config.S3Config) (*minio.Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New(errors.ErrConfigValid, "s3.endpoint is required for s3 sources")
	}
	// empty keys make anonymous requests
	creds := credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), "")
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "cannot create s3 client")
	}
	return client, nil
}

func (c *Client) fetchS3(ctx context.Context, src config.Source, destDir string) (string, error) {
	log := logging.GetLogger("fetch")

	bucket := src.Bucket
	if bucket == "" {
		bucket = c.s3.Bucket
	}
	if bucket == "" || src.Key == "" {
		return "", errors.New(errors.ErrInvalidInput, "s3 source needs a bucket and a key")
	}
	client, err := newS3Client(c.s3)
	if err != nil {
		return "", err
	}

	target := filepath.Join(destDir, fileName(src, path.Base(src.Key), "object.zip"))
	err = c.retry(ctx, bucket+"/"+src.Key, func() error {
		err := client.FGetObject(ctx, bucket, src.Key, target, minio.GetObjectOptions{})
		if code := minio.ToErrorResponse(err).Code; code == "NoSuchKey" || code == "NoSuchBucket" || code == "AccessDenied" {
			return permanentError{err}
		}
		return err
	})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFetch, "cannot download s3://%s/%s", bucket, src.Key).
			WithPath(target).
			WithDetail("bucket", bucket).
			WithDetail("key", src.Key)
	}
	log.Info().Str("bucket", bucket).Str("key", src.Key).Msg("Downloaded object")
	return target, nil
}
