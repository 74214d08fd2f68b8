package local_fs

import (
	"github.com/dailynotes/daily-note-sync-service/pkg/fileurl"
)

type Config struct {
	SavePath string `yaml:"save-path" default:"storage/backups"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	return &LocalFS{
		Config: conf,
	}, nil
}

func (p *LocalFS) getSavePath() string {
	return fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/")
}
