package webdav

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/dailynotes/daily-note-sync-service/pkg/fileurl"

	"github.com/pkg/errors"
)

// SendFile 将文件上传到 WebDAV 服务器
func (w *WebDAV) SendFile(fileKey string, file io.Reader, modTime time.Time) (string, error) {

	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey

	if w.Config.CustomPath != "" {
		if err := w.Client.MkdirAll(w.Config.CustomPath, 0644); err != nil {
			return "", errors.Wrap(err, "webdav")
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	if err := w.Client.Write(fileKey, content, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	return fileKey, nil
}

// SendContent 将二进制内容上传到 WebDAV 服务器
func (w *WebDAV) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {

	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey

	if err := w.Client.Write(fileKey, content, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	return fileKey, nil
}

// List 按前缀列出远端目录下的文件名
func (w *WebDAV) List(prefix string) ([]string, error) {

	dir := w.Config.CustomPath
	if dir == "" {
		dir = "/"
	}

	files, err := w.Client.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "webdav")
	}

	var keys []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(file.Name(), prefix) {
			continue
		}
		keys = append(keys, file.Name())
	}
	return keys, nil
}
