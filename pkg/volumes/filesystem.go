package volumes

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	StorageModeLocal  = "local"
	StorageModeS3     = "s3"
	StorageModeMemory = "memory"
)

// File is one stored object.
type File struct {
	Name     string
	Size     int64
	MimeType string
}

// Filesystem stores volume files under slash separated keys.
type Filesystem interface {
	Write(ctx context.Context, path string, reader io.Reader, size int64) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	// ListFiles returns the files below prefix with names relative to it.
	ListFiles(ctx context.Context, prefix string) ([]File, error)
}

// StorageConfig selects and configures the backing filesystem.
type StorageConfig struct {
	Mode      string
	LocalPath string
	S3        S3Config
}

// NewFilesystem creates the filesystem described by cfg.
func NewFilesystem(cfg StorageConfig) (Filesystem, error) {
	switch strings.ToLower(cfg.Mode) {
	case StorageModeS3:
		if cfg.S3.BucketName == "" || cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" {
			return nil, fmt.Errorf("missing required S3 configuration: bucket, access key id, secret access key")
		}
		return NewFilesystemS3(cfg.S3)
	case StorageModeMemory:
		return NewFilesystemMemory(), nil
	case StorageModeLocal, "":
		basePath := cfg.LocalPath
		if basePath == "" {
			basePath = "./volumes"
		}
		return NewFilesystemLocal(basePath), nil
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s (supported: local, s3, memory)", cfg.Mode)
	}
}

func relativeTo(prefix, name string) (string, bool) {
	if prefix == "" {
		return name, true
	}
	p := strings.TrimSuffix(prefix, "/") + "/"
	if !strings.HasPrefix(name, p) {
		return "", false
	}
	return strings.TrimPrefix(name, p), true
}
