package global

import (
	"github.com/dailynotes/daily-note-sync-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT          string
	Name          string = "Daily Note Sync Service"
	WebClientName string = "Web"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
