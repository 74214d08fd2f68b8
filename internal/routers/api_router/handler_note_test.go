package api_router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dailynotes/daily-note-sync-service/internal/app"
	"github.com/dailynotes/daily-note-sync-service/internal/dto"
	"github.com/dailynotes/daily-note-sync-service/internal/service"
	pkgapp "github.com/dailynotes/daily-note-sync-service/pkg/app"
	"github.com/dailynotes/daily-note-sync-service/pkg/code"
	"github.com/dailynotes/daily-note-sync-service/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNoteService 返回预置结果的 NoteService 桩
type stubNoteService struct {
	modifyNote *dto.NoteDTO
	modifyErr  error
	deleteNote *dto.NoteDTO
	deleteErr  error
}

func (s *stubNoteService) ModifyOrCreate(ctx context.Context, uid int64, params *dto.NoteModifyOrCreateRequest) (bool, *dto.NoteDTO, error) {
	return true, s.modifyNote, s.modifyErr
}

func (s *stubNoteService) Delete(ctx context.Context, uid int64, params *dto.NoteDeleteRequest) (*dto.NoteDTO, error) {
	return s.deleteNote, s.deleteErr
}

func (s *stubNoteService) Get(ctx context.Context, uid int64, params *dto.NoteGetRequest) (*dto.NoteDTO, error) {
	return nil, nil
}

func (s *stubNoteService) List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.NoteDTO, int64, error) {
	return nil, 0, nil
}

func (s *stubNoteService) Search(ctx context.Context, uid int64, keyword string, page, pageSize int) ([]*dto.NoteDTO, int64, error) {
	return nil, 0, nil
}

func (s *stubNoteService) Sync(ctx context.Context, uid int64, params *dto.NoteSyncRequest) ([]*dto.NoteDTO, error) {
	return nil, nil
}

func newNoteTestRouter(svc service.NoteService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.RegisterCustom()

	h := NewNoteHandler(&app.App{NoteService: svc}, nil)

	r := gin.New()
	r.POST("/api/note", h.CreateOrUpdate)
	r.DELETE("/api/note", h.Delete)
	return r
}

func doNoteRequest(t *testing.T, r *gin.Engine, method, target string, body any) *pkgapp.Res {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	res := &pkgapp.Res{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), res))
	return res
}

func TestNoteHandlerCreateOrUpdateSuccess(t *testing.T) {
	saved := &dto.NoteDTO{ID: "n1", Title: "t", Content: "c"}
	r := newNoteTestRouter(&stubNoteService{modifyNote: saved})

	res := doNoteRequest(t, r, http.MethodPost, "/api/note", map[string]any{
		"title":   "t",
		"content": "c",
	})

	assert.Equal(t, code.Success.Code(), res.Code)
	assert.True(t, res.Status)

	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "n1", data["id"])
}

func TestNoteHandlerCreateOrUpdatePartialRefFailure(t *testing.T) {
	// 笔记已落库，但部分分组引用没写上，响应不能是无保留的成功码
	saved := &dto.NoteDTO{ID: "n1", Title: "t", Content: "c", GroupIDs: []string{"g1", "gone"}}
	refErr := code.ErrorRefSyncPartial.Clone().WithDetails("add gone: record not found")
	r := newNoteTestRouter(&stubNoteService{modifyNote: saved, modifyErr: refErr})

	res := doNoteRequest(t, r, http.MethodPost, "/api/note", map[string]any{
		"title":    "t",
		"content":  "c",
		"groupIds": []string{"g1", "gone"},
	})

	assert.Equal(t, code.ErrorRefSyncPartial.Code(), res.Code)
	assert.False(t, res.Status)
	assert.NotEmpty(t, res.Details)

	// 已保存的笔记随响应返回，客户端据此更新本地状态
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "n1", data["id"])
}

func TestNoteHandlerDeletePartialRefFailure(t *testing.T) {
	// 笔记已删除，级联清理部分失败，同样带回部分失败码和已删除的笔记
	deleted := &dto.NoteDTO{ID: "n1", Title: "t", Content: "c"}
	refErr := code.ErrorRefSyncPartial.Clone().WithDetails("remove gone: record not found")
	r := newNoteTestRouter(&stubNoteService{deleteNote: deleted, deleteErr: refErr})

	res := doNoteRequest(t, r, http.MethodDelete, "/api/note?id=n1", nil)

	assert.Equal(t, code.ErrorRefSyncPartial.Code(), res.Code)
	assert.False(t, res.Status)

	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "n1", data["id"])
}
