package handler

import (
	"mime/multipart"
	"sync"

	"ba_api/internal/pkg/uploader"
	"ba_api/pkg/logger"
	"ba_api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxConcurrentUploads 批量上传并发上限
const maxConcurrentUploads = 4

// maxBatchSize 单次请求最多文件数
const maxBatchSize = 10

// MediaHandler 媒体上传接口
type MediaHandler struct {
	uploader uploader.Uploader
}

// NewMediaHandler 创建处理器
func NewMediaHandler(u uploader.Uploader) *MediaHandler {
	return &MediaHandler{uploader: u}
}

type uploadResult struct {
	index int
	url   string
	err   error
}

// Upload 批量上传
// @Summary 上传媒体文件
// @Description multipart 批量上传到对象存储，返回 URL 列表
// @Tags 媒体
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "文件（可多个）"
// @Success 200 {object} response.Response
// @Router /api/media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		response.ServerError(c, "media storage is not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form required")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "no files provided")
		return
	}
	if len(files) > maxBatchSize {
		response.BadRequest(c, "too many files in one request")
		return
	}

	urls := h.uploadAll(files)

	failed := 0
	out := make([]string, 0, len(urls))
	for _, r := range urls {
		if r.err != nil {
			failed++
			logger.Log.Error("upload failed", zap.String("file", files[r.index].Filename), zap.Error(r.err))
			continue
		}
		out = append(out, r.url)
	}

	if failed == len(files) {
		response.ServerError(c, "all uploads failed")
		return
	}

	response.Success(c, gin.H{
		"urls":   out,
		"failed": failed,
	})
}

// uploadAll 有界并发上传，保持结果顺序
func (h *MediaHandler) uploadAll(files []*multipart.FileHeader) []uploadResult {
	results := make([]uploadResult, len(files))
	sem := make(chan struct{}, maxConcurrentUploads)
	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)
		go func(i int, f *multipart.FileHeader) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			url, err := h.uploader.UploadFile(f)
			results[i] = uploadResult{index: i, url: url, err: err}
		}(i, f)
	}
	wg.Wait()

	return results
}
