package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/assessment"
)

type assessmentApi struct {
	svc *assessment.Service
}

func registerAssessmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assessment.Service) {
	api := assessmentApi{svc: svc}

	ag := g.Group("/assessments", jwt, staffMiddleware())
	ag.POST("", api.create)
	ag.GET("", api.query)
}

// Handlers

func (api *assessmentApi) create(ctx echo.Context) error {
	var data assessment.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}

	// the recording teacher is always the authenticated user
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data.TeacherID = claims.Subject

	asmt, err := api.svc.Record(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, asmt)
}

func (api *assessmentApi) query(ctx echo.Context) error {
	filter := new(assessment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []assessment.CompetencyAssessment{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	asmts, err := api.svc.Filter(*filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying assessments")
	}
	if asmts == nil {
		asmts = []assessment.CompetencyAssessment{}
	}
	return ctx.JSON(http.StatusOK, asmts)
}
