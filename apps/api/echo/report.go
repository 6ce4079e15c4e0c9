package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/student"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt)
	rg.GET("/students/:id", api.retrieve)
	rg.GET("/students/:id/summary", api.retrieveSummary)
	rg.POST("/students/:id/send", api.send, staffMiddleware())
	rg.GET("/classes/:id", api.classSummary, staffMiddleware())
}

func mapReportError(err error) error {
	switch errors.Cause(err) {
	case student.ErrNotFound, curriculum.ErrNotFound:
		return errHttpNotFound
	}
	return err
}

// Handlers

func (api *reportApi) retrieve(ctx echo.Context) error {
	doc, err := api.svc.BuildReport(ctx.Param("id"), ctx.QueryParam("learning_area_id"))
	if err != nil {
		return mapReportError(err)
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *reportApi) retrieveSummary(ctx echo.Context) error {
	doc, err := api.svc.BuildReport(ctx.Param("id"), ctx.QueryParam("learning_area_id"))
	if err != nil {
		return mapReportError(err)
	}

	filename := "progress_report_" + doc.Student.StudentID + ".txt"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.String(http.StatusOK, report.Summary(doc))
}

func (api *reportApi) send(ctx echo.Context) error {
	var data SendReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendReportRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	to := make([]mail.Address, 0, len(data.To))
	for _, addr := range data.To {
		to = append(to, mail.Address{Address: addr})
	}
	if err := api.svc.SendSummary(ctx.Param("id"), data.LearningAreaID, to...); err != nil {
		return mapReportError(err)
	}
	return ctx.JSON(http.StatusOK, SendReportResponse{Sent: true})
}

func (api *reportApi) classSummary(ctx echo.Context) error {
	summary, err := api.svc.ClassSummary(ctx.Param("id"))
	if err != nil {
		return mapReportError(err)
	}
	return ctx.JSON(http.StatusOK, summary)
}

type (
	SendReportRequest struct {
		LearningAreaID string   `json:"learning_area_id"`
		To             []string `json:"to" validate:"omitempty,dive,email"`
	}

	SendReportResponse struct {
		Sent bool `json:"sent"`
	}
)

func (sr *SendReportRequest) Validate() error {
	sr.LearningAreaID = core.CleanString(sr.LearningAreaID)
	for i, addr := range sr.To {
		sr.To[i] = core.CleanString(addr, true /* lower */)
	}
	return core.Validate.Struct(sr)
}
