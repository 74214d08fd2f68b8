package aws_s3

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	SecretAccessKey string `yaml:"secret-access-key"`
	CustomPath      string `yaml:"custom-path"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		if logger != nil {
			s.logger = logger
		}
	}
}

var clients = make(map[string]*S3)

// NewClient 创建 S3 存储实例，相同密钥复用客户端
func NewClient(conf *Config, opts ...Option) (*S3, error) {

	if client, ok := clients[conf.AccessKeyID]; ok {
		for _, opt := range opts {
			opt(client)
		}
		return client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, "")),
		awsconfig.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := &S3{
		S3Client: s3.NewFromConfig(cfg),
		Config:   conf,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}

	clients[conf.AccessKeyID] = client
	return client, nil
}
