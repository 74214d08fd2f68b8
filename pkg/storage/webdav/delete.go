package webdav

import (
	"github.com/dailynotes/daily-note-sync-service/pkg/fileurl"

	"github.com/pkg/errors"
)

func (w *WebDAV) Delete(fileKey string) error {
	fileKey = fileurl.PathSuffixCheckAdd(w.Config.CustomPath, "/") + fileKey

	if err := w.Client.Remove(fileKey); err != nil {
		return errors.Wrap(err, "webdav")
	}
	return nil
}
