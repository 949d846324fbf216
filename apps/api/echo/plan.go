package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core/plan"
)

type planApi struct {
	svc        plan.ServiceInterface
	validate   *validator.Validate
	translator ut.Translator
}

func registerPlanAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc plan.ServiceInterface,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := planApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	pg := g.Group("/attendance-plans", jwt)
	pg.POST("", api.create, mentorMiddleware())
	pg.GET("", api.query)

	// detail endpoints
	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/status", api.updateStatus, mentorMiddleware())
	dg.DELETE("", api.destroy, mentorMiddleware())
}

// Handlers

func (api *planApi) create(ctx echo.Context) error {
	var data plan.NewPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, p)
}

func (api *planApi) query(ctx echo.Context) error {
	var filter plan.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	var ordering Ordering
	ordering.Bind(ctx, "created_at", "updated_at")

	plans, err := api.svc.Query(ctx.Request().Context(), &filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying attendance plans")
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *planApi) retrieve(ctx echo.Context) error {
	p, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *planApi) updateStatus(ctx echo.Context) error {
	var data plan.UpdateAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	p, err := api.svc.UpdateAttendance(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *planApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
