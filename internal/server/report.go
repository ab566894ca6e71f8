package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/lazysheet/internal/logger"
	"github.com/locvowork/lazysheet/pkg/lazysheet"
	"github.com/locvowork/lazysheet/pkg/lazysheet/sqlsource"
)

// ErrNoDatabase is returned by database backed reports when the app has no
// connection pool.
var ErrNoDatabase = errors.New("no database configured")

// ReportRequest is what a report sees of the incoming request.
type ReportRequest struct {
	Params  url.Values
	DB      sqlsource.Querier
	Options []lazysheet.Option
}

// ReportFunc assembles the workbook for one download.
type ReportFunc func(ctx context.Context, req ReportRequest) (*lazysheet.WorkbookBuilder, error)

// QueryReport returns a report with a single sheet filled from query. With no
// configure functions the sheet holds every field of T.
func QueryReport[T any](sheet string, query *sqlsource.Query, configure ...func(*lazysheet.SheetBuilder[T])) ReportFunc {
	return func(ctx context.Context, req ReportRequest) (*lazysheet.WorkbookBuilder, error) {
		if req.DB == nil {
			return nil, ErrNoDatabase
		}
		records, err := sqlsource.CollectStructs[T](ctx, req.DB, query)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", sheet, err)
		}
		logger.DebugLog(ctx, "loaded %d records for sheet %s", len(records), sheet)

		wb := lazysheet.NewWorkbook(req.Options...)
		sb := lazysheet.AddSheet(wb, records).Name(sheet)
		if len(configure) == 0 {
			sb.AllFields()
		}
		for _, fn := range configure {
			fn(sb)
		}
		return wb, nil
	}
}

// ResponseError writes a JSON error body and logs err.
func ResponseError(c echo.Context, status int, message string, err error) error {
	body := map[string]string{"message": message}
	if err != nil {
		body["error"] = err.Error()
		logger.ErrorLogWithErr(c.Request().Context(), err, "%s", message)
	} else {
		logger.ErrorLog(c.Request().Context(), "%s", message)
	}
	return c.JSON(status, body)
}

func (a *App) ListReportsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"reports": a.ReportNames()})
}

// ExportReportHandler builds the named report and sends it as an attachment.
// The filename query parameter overrides the default <name>.xlsx.
func (a *App) ExportReportHandler(c echo.Context) error {
	name := c.Param("name")
	fn, ok := a.reports[name]
	if !ok {
		return ResponseError(c, http.StatusNotFound, "Report not found", fmt.Errorf("report %q is not registered", name))
	}

	ctx := logger.WithLogger(c.Request().Context(), map[string]interface{}{"report": name})
	wb, err := fn(ctx, ReportRequest{
		Params:  c.QueryParams(),
		DB:      a.querier(),
		Options: a.cfg.WorkbookOptions(),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNoDatabase) {
			status = http.StatusServiceUnavailable
		}
		return ResponseError(c, status, "Failed to prepare report", err)
	}

	excelBytes, err := wb.ToBytes(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, lazysheet.ErrInvalidOperation) {
			status = http.StatusUnprocessableEntity
		}
		return ResponseError(c, status, "Failed to generate Excel file", err)
	}
	logger.InfoLog(ctx, "exported report %s with %d sheets (%d bytes)", name, wb.SheetCount(), len(excelBytes))

	c.Response().Header().Set(echo.HeaderContentType, lazysheet.ContentTypeWorkbook)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", attachmentName(c.QueryParam("filename"), name)))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(excelBytes)))

	_, err = c.Response().Write(excelBytes)
	return err
}

func attachmentName(requested, report string) string {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = report
	}
	if !strings.HasSuffix(strings.ToLower(name), lazysheet.ExtensionWorkbook) {
		name += lazysheet.ExtensionWorkbook
	}
	return name
}
