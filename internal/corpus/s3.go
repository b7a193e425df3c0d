package corpus

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/amishk599/reqwiz/internal/config"
	"github.com/amishk599/reqwiz/internal/extract"
	"github.com/amishk599/reqwiz/internal/model"
)

const maxObjectSize = 20 << 20

// objectStore is the subset of the minio client S3Source needs.
type objectStore interface {
	List(ctx context.Context, bucket, prefix string) ([]string, error)
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// S3Source extracts every supported object under a bucket prefix.
type S3Source struct {
	store  objectStore
	bucket string
	prefix string
}

// NewS3Source connects to an S3-compatible endpoint such as MinIO.
func NewS3Source(cfg config.S3Config) (*S3Source, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	bucket := strings.TrimSpace(cfg.Bucket)
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Source{store: minioStore{client: client}, bucket: bucket, prefix: cfg.Prefix}, nil
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.prefix }

func (s *S3Source) Load(ctx context.Context) ([]model.Document, error) {
	keys, err := s.store.List(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.bucket, err)
	}

	var docs []model.Document
	for _, key := range keys {
		if strings.HasSuffix(key, "/") || !supported(key) {
			continue
		}
		text, err := s.extract(ctx, key)
		if err != nil {
			return nil, err
		}
		docs = append(docs, model.Document{Origin: "s3://" + s.bucket + "/" + key, Text: text})
	}
	return docs, nil
}

func (s *S3Source) extract(ctx context.Context, key string) (string, error) {
	obj, err := s.store.Open(ctx, s.bucket, key)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxObjectSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	text, err := extract.FromBytes(path.Base(key), data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", key, err)
	}
	return text, nil
}

// supported reports whether key names a format the extractor handles.
func supported(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf", ".docx", ".txt", ".md", ".text", ".html", ".htm":
		return true
	}
	return false
}

type minioStore struct {
	client *minio.Client
}

func (m minioStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (m minioStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}
