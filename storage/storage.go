// Package storage persists rendered audio and scores. Every failure is
// reported as ErrIO so callers can tell storage problems from bad input.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/jsphweid/hummix/constants"
)

var (
	ErrIO       = errors.New("storage failure")
	ErrNotFound = errors.New("object not found")
)

type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

func ioError(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, key, err)
}

// LocalStore keeps objects as files under Dir.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

func (s *LocalStore) path(key string) (string, error) {
	p := filepath.Join(s.Dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.Dir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("key %q escapes %s", key, s.Dir)
	}
	return p, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return ioError("put", key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return ioError("put", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return ioError("put", key, err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return ioError("put", key, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, ioError("get", key, err)
	}
	p, err := s.path(key)
	if err != nil {
		return nil, ioError("get", key, err)
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ioError("get", key, ErrNotFound)
	}
	if err != nil {
		return nil, ioError("get", key, err)
	}
	return data, nil
}

// S3Store keeps objects in a bucket.
type S3Store struct {
	Client s3iface.S3API
	Bucket string
}

// NewS3Store connects to S3 or, when endpoint is set, to an S3 compatible
// server such as minio or localstack.
func NewS3Store(bucket, region, endpoint string) (*S3Store, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create an S3 session: %w", err)
	}
	return &S3Store{Client: s3.New(sess), Bucket: bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return ioError("put", key, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ioError("get", key, ErrNotFound)
		}
		return nil, ioError("get", key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ioError("get", key, err)
	}
	return data, nil
}

func contentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".wav":
		return "audio/wav"
	case ".mid", ".midi":
		return "audio/midi"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	}
	return "application/octet-stream"
}

// FromEnv returns an S3Store when HUMMIX_S3_BUCKET is set and a LocalStore
// under the output directory otherwise.
func FromEnv() (Store, error) {
	if bucket := constants.GetS3Bucket(); bucket != "" {
		store, err := NewS3Store(bucket, constants.GetRegion(), constants.GetS3Endpoint())
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return NewLocalStore(constants.GetOutDir()), nil
}
