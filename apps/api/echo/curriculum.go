package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/curriculum"
)

type curriculumApi struct {
	svc *curriculum.Service
}

func registerCurriculumAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *curriculum.Service) {
	api := curriculumApi{svc: svc}

	cg := g.Group("/curriculum", jwt)
	cg.GET("/learning-areas", api.queryAreas)
	cg.GET("/learning-areas/:id/tree", api.retrieveTree)
}

// Handlers

func (api *curriculumApi) queryAreas(ctx echo.Context) error {
	areas, err := api.svc.QueryAreas()
	if err != nil {
		return errors.Wrap(err, "querying learning areas")
	}
	if areas == nil {
		areas = []curriculum.LearningArea{}
	}
	return ctx.JSON(http.StatusOK, areas)
}

func (api *curriculumApi) retrieveTree(ctx echo.Context) error {
	tree, err := api.svc.Tree(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "loading learning area tree")
	}
	return ctx.JSON(http.StatusOK, tree)
}
