package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core/lesson"
)

type lessonApi struct {
	svc lesson.ServiceInterface
}

func registerLessonAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc lesson.ServiceInterface) {
	api := lessonApi{svc: svc}

	lg := g.Group("/lessons", jwt)
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
}

// Handlers

func (api *lessonApi) query(ctx echo.Context) error {
	var filter lesson.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	var ordering Ordering
	ordering.Bind(ctx, "title", "subject", "created_at")

	lessons, err := api.svc.Query(ctx.Request().Context(), &filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	l, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, l)
}
