package index

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fetchLocal resolves path to a local filesystem path. s3:// paths are
// downloaded to a temporary file first; the returned cleanup removes it.
// Local paths return a nil cleanup.
func fetchLocal(ctx context.Context, path, accessKey, secretKey string) (string, func(), error) {
	if !strings.HasPrefix(path, "s3://") {
		return path, nil, nil
	}

	u, err := url.Parse(path)
	if err != nil {
		return "", nil, fmt.Errorf("index: parse s3 path %q: %w", path, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", nil, fmt.Errorf("index: malformed s3 path %q", path)
	}

	var opts []func(*config.LoadOptions) error
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return "", nil, fmt.Errorf("index: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil, fmt.Errorf("index: fetch %q: %w", path, err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp("", "prefix-index-*.bin")
	if err != nil {
		return "", nil, fmt.Errorf("index: create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("index: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("index: close temp file: %w", err)
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
