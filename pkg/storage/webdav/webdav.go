package webdav

import (
	"github.com/studio-b12/gowebdav"
)

// Config 存储 WebDAV 连接信息
type Config struct {
	URL        string `yaml:"url"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

// WebDAV 表示 WebDAV 客户端
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

var clients = make(map[string]*WebDAV)

// NewClient 创建一个新的 WebDAV 客户端实例，相同连接信息复用
func NewClient(conf *Config) (*WebDAV, error) {
	key := conf.URL + conf.User + conf.CustomPath

	if clients[key] != nil {
		return clients[key], nil
	}

	c := gowebdav.NewClient(conf.URL, conf.User, conf.Password)
	if err := c.Connect(); err != nil {
		return nil, err
	}

	clients[key] = &WebDAV{
		Client: c,
		Config: conf,
	}
	return clients[key], nil
}
