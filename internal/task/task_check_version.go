package task

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dailynotes/daily-note-sync-service/internal/app"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"

	"golang.org/x/mod/semver"
)

// ServiceVersionURL 最新发布版本查询地址
const ServiceVersionURL = "https://img.shields.io/github/v/release/dailynotes/daily-note-sync-service.json"

type ShieldsJSON struct {
	Message string `json:"message"`
}

// CheckVersionTask 周期性检查服务端是否有新版本发布
type CheckVersionTask struct {
	app *app.App
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		if !appContainer.Config().CheckVersion.Enabled {
			return nil, nil
		}
		return &CheckVersionTask{
			app: appContainer,
		}, nil
	})
}

func (t *CheckVersionTask) Name() string {
	return "check_version"
}

func (t *CheckVersionTask) Run(ctx context.Context) error {
	serviceLatest, err := t.fetchVersion(ctx, ServiceVersionURL)
	if err != nil {
		return err
	}

	currentServiceVersion := t.app.Version().Version
	if !strings.HasPrefix(currentServiceVersion, "v") {
		currentServiceVersion = "v" + currentServiceVersion
	}

	if !strings.HasPrefix(serviceLatest, "v") {
		serviceLatest = "v" + serviceLatest
	}

	info := pkgapp.CheckVersionInfo{
		VersionNewName: serviceLatest,
		VersionIsNew:   semver.Compare(serviceLatest, currentServiceVersion) > 0,
	}

	// 更新 App 中的版本信息
	t.app.SetCheckVersionInfo(info)

	return nil
}

func (t *CheckVersionTask) fetchVersion(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var sj ShieldsJSON
	if err := json.Unmarshal(body, &sj); err != nil {
		return "", err
	}

	return sj.Message, nil
}

func (t *CheckVersionTask) LoopInterval() time.Duration {
	return 30 * time.Minute
}

func (t *CheckVersionTask) IsStartupRun() bool {
	return true
}
