package aws_s3

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/dailynotes/daily-note-sync-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendFile 上传文件到 S3 存储桶
func (p *S3) SendFile(fileKey string, file io.Reader, modTime time.Time) (string, error) {

	ctx := context.Background()
	bucket := p.Config.BucketName

	fileKey = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey

	_, err := p.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileKey),
		Body:   file,
	})
	if err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}

	p.logger.Debug("aws_s3 object uploaded", zap.String("key", fileKey))
	return fileKey, nil
}

// SendContent 上传二进制内容到 S3 存储桶
func (p *S3) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	return p.SendFile(fileKey, bytes.NewReader(content), modTime)
}

// List 按前缀列出存储桶内的对象键
func (p *S3) List(prefix string) ([]string, error) {

	ctx := context.Background()
	prefix = fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + prefix

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(p.S3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.Config.BucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "aws_s3")
		}
		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}
	return keys, nil
}
