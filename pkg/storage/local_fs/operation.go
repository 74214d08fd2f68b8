package local_fs

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SendFile 将文件保存到本地存储目录，保留修改时间
func (p *LocalFS) SendFile(fileKey string, file io.Reader, modTime time.Time) (string, error) {

	dstFileKey := p.getSavePath() + fileKey

	if err := os.MkdirAll(filepath.Dir(dstFileKey), 0754); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dstFileKey)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		return "", errors.Wrap(err, "local_fs")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	if !modTime.IsZero() {
		_ = os.Chtimes(dstFileKey, modTime, modTime)
	}

	return dstFileKey, nil
}

// SendContent 将二进制内容保存到本地存储目录
func (p *LocalFS) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {

	dstFileKey := p.getSavePath() + fileKey

	if err := os.MkdirAll(filepath.Dir(dstFileKey), 0754); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	if err := os.WriteFile(dstFileKey, content, 0644); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	if !modTime.IsZero() {
		_ = os.Chtimes(dstFileKey, modTime, modTime)
	}

	return dstFileKey, nil
}

// List 按前缀列出存储目录内的文件名，按名称升序
func (p *LocalFS) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(p.Config.SavePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "local_fs")
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		keys = append(keys, entry.Name())
	}
	return keys, nil
}
