package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"classhub/backend/internal/service"
	"classhub/backend/pkg/response"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeICS  = "text/calendar"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportQuizResults 导出测验成绩 Excel（教师本人）
// GET /api/v1/quizzes/:id/export.xlsx
func (h *ExportHandler) ExportQuizResults(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportQuizResults(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, mimeXLSX, filename, buf.Bytes())
}

// ExportCourseSchedule 导出课程周课表 ICS
// GET /api/v1/courses/:id/export.ics
func (h *ExportHandler) ExportCourseSchedule(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCourseSchedule(c.Request.Context(), c.Param("id"), time.Now())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, mimeICS, filename, buf.Bytes())
}

// writeDownload 设置下载响应头并写出文件内容
func writeDownload(c *gin.Context, mime, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", mime)
	c.Data(http.StatusOK, mime, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSubmissions):
		response.NotFound(c, 16001, "该测验暂无提交记录")
	case errors.Is(err, service.ErrExportNoBlocks):
		response.NotFound(c, 16002, "该课程暂无课程块")
	case errors.Is(err, service.ErrQuizNotFound):
		response.NotFound(c, 13001, "测验不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrCourseNotOwner):
		response.Forbidden(c, 12002, "无权操作此课程")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
