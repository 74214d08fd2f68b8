// Package storage 提供备份文件的统一存储抽象
// 支持本地磁盘、AWS S3 和 WebDAV 三种后端
package storage

import (
	"fmt"
	"io"
	"time"

	"github.com/dailynotes/daily-note-sync-service/pkg/storage/aws_s3"
	"github.com/dailynotes/daily-note-sync-service/pkg/storage/local_fs"
	"github.com/dailynotes/daily-note-sync-service/pkg/storage/webdav"

	"go.uber.org/zap"
)

type Type = string

const LocalFS Type = "local-fs"
const AwsS3 Type = "aws-s3"
const WebDAV Type = "webdav"

var StorageTypeMap = map[Type]bool{
	LocalFS: true,
	AwsS3:   true,
	WebDAV:  true,
}

// Config 统一存储配置
type Config struct {
	Type    Type           `yaml:"type" default:"local-fs"`
	LocalFS local_fs.Config `yaml:"local-fs"`
	AwsS3   aws_s3.Config   `yaml:"aws-s3"`
	WebDAV  webdav.Config   `yaml:"webdav"`
}

// Storager 存储后端接口
type Storager interface {
	SendFile(pathKey string, file io.Reader, modTime time.Time) (string, error)
	SendContent(pathKey string, content []byte, modTime time.Time) (string, error)
	List(prefix string) ([]string, error)
	Delete(pathKey string) error
}

// NewClient 按配置类型创建存储客户端
func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is nil")
	}

	switch config.Type {
	case LocalFS:
		return local_fs.NewClient(&config.LocalFS)
	case AwsS3:
		return aws_s3.NewClient(&config.AwsS3, aws_s3.WithLogger(logger))
	case WebDAV:
		return webdav.NewClient(&config.WebDAV)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
