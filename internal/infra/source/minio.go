package source

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/rizaldy/datachat/internal/domain/datasets"
)

// BucketSource discovers *.json objects in an S3-compatible bucket. Objects
// are fetched at discovery time; nothing is ever written back.
type BucketSource struct {
	client   *minio.Client
	bucket   string
	prefix   string
	maxBytes int64
}

// NewBucketSource buat koneksi MinIO
func NewBucketSource(ctx context.Context, endpoint, region, bucket, prefix, accessKey, secretKey string, useSSL bool, maxBytes int64) (*BucketSource, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada; kalau tidak, biar error sekarang bukan saat sync
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, minio.ErrorResponse{Code: "NoSuchBucket", BucketName: bucket}
	}

	return &BucketSource{client: cli, bucket: bucket, prefix: prefix, maxBytes: maxBytes}, nil
}

func (s *BucketSource) Name() string { return "bucket:" + s.bucket }

func (s *BucketSource) Discover(ctx context.Context) ([]domain.Discovered, error) {
	var found []domain.Discovered

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if !strings.HasSuffix(strings.ToLower(obj.Key), ".json") {
			continue
		}
		if s.maxBytes > 0 && obj.Size > s.maxBytes {
			continue
		}

		raw, n, err := s.fetch(ctx, obj.Key)
		if err != nil {
			// satu objek rusak jangan menggagalkan sync
			continue
		}
		found = append(found, domain.Discovered{
			Name:  obj.Key,
			Bytes: n,
			Raw:   raw,
		})
	}
	return found, nil
}

func (s *BucketSource) fetch(ctx context.Context, key string) (any, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, 0, err
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, 0, err
	}
	return raw, int64(len(b)), nil
}
