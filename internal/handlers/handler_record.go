package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/audit_portal/internal/apperrors"
	portssvc "github.com/SscSPs/audit_portal/internal/core/ports/services"
	"github.com/SscSPs/audit_portal/internal/dto"
	"github.com/SscSPs/audit_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// recordHandler handles HTTP requests related to audit records.
type recordHandler struct {
	records portssvc.AuditRecordSvcFacade
}

func newRecordHandler(records portssvc.AuditRecordSvcFacade) *recordHandler {
	return &recordHandler{records: records}
}

// registerRecordRoutes registers routes related to audit records.
func registerRecordRoutes(rg *gin.RouterGroup, records portssvc.AuditRecordSvcFacade) {
	h := newRecordHandler(records)

	r := rg.Group("/records")
	{
		r.POST("", h.createRecord)
		r.GET("", h.listRecords)
		r.GET("/pending", h.listPendingRecords)
		r.GET("/mine", h.listOwnRecords)
		r.GET("/export", h.exportRecords)
		r.GET("/:id", h.getRecord)
		r.POST("/:id/respond", h.respond)
	}
}

// createRecord godoc
// @Summary Submit a bin count
// @Description Records a count. A count matching the book quantity is auto-approved, otherwise the client is asked to review it.
// @Tags records
// @Accept json
// @Produce json
// @Param record body dto.CreateRecordRequest true "Count details"
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /records [post]
func (h *recordHandler) createRecord(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rec, err := h.records.CreateRecord(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err, "Failed to create audit record")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecordResponse(rec))
}

// listPendingRecords godoc
// @Summary Records awaiting review
// @Description Lists pending records visible to the caller, newest first.
// @Tags records
// @Produce json
// @Success 200 {array} dto.RecordResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /records/pending [get]
func (h *recordHandler) listPendingRecords(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	records, err := h.records.ListPendingRecords(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to list pending records")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponses(records))
}

// listOwnRecords godoc
// @Summary My records
// @Description Lists the records the caller submitted, newest first.
// @Tags records
// @Produce json
// @Success 200 {array} dto.RecordResponse
// @Security BearerAuth
// @Router /records/mine [get]
func (h *recordHandler) listOwnRecords(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	records, err := h.records.ListOwnRecords(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to list own records")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponses(records))
}

// getRecord godoc
// @Summary Get a record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /records/{id} [get]
func (h *recordHandler) getRecord(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	rec, err := h.records.GetRecord(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get audit record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(rec))
}

// respond godoc
// @Summary Respond to a pending record
// @Description Approves or rejects a pending count. Rejection requires a comment and asks staff for a recount.
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param response body dto.RespondRequest true "Decision"
// @Success 200 {object} dto.RecordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Record is no longer pending"
// @Security BearerAuth
// @Router /records/{id}/respond [post]
func (h *recordHandler) respond(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req dto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rec, err := h.records.Respond(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to respond to audit record")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(rec))
}

// listRecords godoc
// @Summary List all records
// @Description Admin listing with optional filters, newest first.
// @Tags records
// @Produce json
// @Param startDate query string false "Inclusive start (YYYY-MM-DD or RFC 3339)"
// @Param endDate query string false "Inclusive end (YYYY-MM-DD or RFC 3339)"
// @Param location query string false "Exact location"
// @Param staff query string false "Staff name substring"
// @Param clientCode query string false "Client unique code"
// @Param pincode query string false "Client pincode"
// @Success 200 {array} dto.RecordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /records [get]
func (h *recordHandler) listRecords(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, err, "Invalid record filter")
		return
	}

	records, err := h.records.ListRecords(c.Request.Context(), caller, filter)
	if err != nil {
		respondError(c, err, "Failed to list audit records")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponses(records))
}

// exportRecords godoc
// @Summary Export records
// @Description Downloads the filtered admin listing as CSV or XLSX.
// @Tags records
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Param startDate query string false "Inclusive start"
// @Param endDate query string false "Inclusive end"
// @Param location query string false "Exact location"
// @Param staff query string false "Staff name substring"
// @Param clientCode query string false "Client unique code"
// @Param pincode query string false "Client pincode"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /records/export [get]
func (h *recordHandler) exportRecords(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, err, "Invalid record filter")
		return
	}

	format := portssvc.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(portssvc.ExportCSV))))
	contentType := "text/csv"
	switch format {
	case portssvc.ExportCSV:
	case portssvc.ExportXLSX:
		contentType = xlsxContentType
	default:
		respondError(c, apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q", format)), "Invalid export format")
		return
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.records.ExportRecords(c.Request.Context(), caller, filter, format, &buf); err != nil {
		respondError(c, err, "Failed to export audit records")
		return
	}

	filename := fmt.Sprintf("audit-records-%s.%s", time.Now().UTC().Format("20060102"), format)
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Serving record export", slog.String("file", filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
