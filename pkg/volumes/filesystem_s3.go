package volumes

import (
	"context"
	"errors"
	"io"

	"github.com/JayJamieson/table-editor/pkg/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// FilesystemS3 stores volume files as objects of one bucket.
type FilesystemS3 struct {
	client     *s3.Client
	bucketName string
}

type S3Config struct {
	Endpoint        string // for S3-compatible services such as MinIO
	Region          string
	BucketName      string
	AccessKeyID     string
	SecretAccessKey string
}

func NewFilesystemS3(cfg S3Config) (Filesystem, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsConfig, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &FilesystemS3{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

func (f *FilesystemS3) Write(ctx context.Context, path string, reader io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(f.bucketName),
		Key:         aws.String(path),
		Body:        reader,
		ContentType: aws.String(utils.GetMimeType(path)),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	_, err := f.client.PutObject(ctx, input)
	return err
}

func (f *FilesystemS3) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return result.Body, nil
}

func (f *FilesystemS3) Delete(ctx context.Context, path string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucketName),
		Key:    aws.String(path),
	})
	return err
}

func (f *FilesystemS3) ListFiles(ctx context.Context, prefix string) ([]File, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucketName),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix + "/")
	}

	files := []File{}
	paginator := s3.NewListObjectsV2Paginator(f.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, object := range page.Contents {
			if object.Key == nil {
				continue
			}
			rel, ok := relativeTo(prefix, *object.Key)
			if !ok {
				continue
			}
			files = append(files, File{
				Name:     rel,
				Size:     aws.ToInt64(object.Size),
				MimeType: utils.GetMimeType(*object.Key),
			})
		}
	}

	return files, nil
}
