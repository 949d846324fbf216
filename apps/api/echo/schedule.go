package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core/plan"
	"github.com/mentora/backend/core/schedule"
)

type slotApi struct {
	svc        schedule.ServiceInterface
	planSvc    plan.ServiceInterface
	validate   *validator.Validate
	translator ut.Translator
}

func registerScheduleAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc schedule.ServiceInterface,
	planSvc plan.ServiceInterface,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := slotApi{
		svc:        svc,
		planSvc:    planSvc,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/slots", jwt)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("", api.query)

	// detail endpoints
	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.POST("/start", api.start, mentorMiddleware())
	dg.POST("/end", api.end, mentorMiddleware())
	dg.POST("/cancel", api.cancel, mentorMiddleware())
	dg.GET("/attendance-plans", api.queryPlans)
	dg.GET("/attendance-stats", api.attendanceStats)
}

// Handlers

func (api *slotApi) create(ctx echo.Context) error {
	var data schedule.NewSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlot")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	slot, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating slot")
	}

	return ctx.JSON(http.StatusCreated, slot)
}

func (api *slotApi) query(ctx echo.Context) error {
	var filter schedule.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	var ordering Ordering
	ordering.Bind(ctx, "date", "period_start", "created_at")

	slots, err := api.svc.Query(ctx.Request().Context(), &filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying slots")
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *slotApi) retrieve(ctx echo.Context) error {
	slot, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api *slotApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *slotApi) start(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	slot, err := api.svc.Start(ctx.Request().Context(), ctx.Param("id"), actor.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api *slotApi) end(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	slot, err := api.svc.End(ctx.Request().Context(), ctx.Param("id"), actor.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api *slotApi) cancel(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	slot, err := api.svc.Cancel(ctx.Request().Context(), ctx.Param("id"), actor.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api *slotApi) queryPlans(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	// 404 on an unknown slot rather than an empty list
	if _, err := api.svc.Get(reqCtx, ctx.Param("id")); err != nil {
		return err
	}

	plans, err := api.planSvc.ListForSlot(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing slot plans")
	}
	return ctx.JSON(http.StatusOK, plans)
}

type attendanceStatsResponse struct {
	Overall  plan.Stats         `json:"overall"`
	Students []plan.StudentStats `json:"students"`
}

func (api *slotApi) attendanceStats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if _, err := api.svc.Get(reqCtx, ctx.Param("id")); err != nil {
		return err
	}

	plans, err := api.planSvc.ListForSlot(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing slot plans")
	}
	return ctx.JSON(http.StatusOK, attendanceStatsResponse{
		Overall:  plan.Summarize(plans),
		Students: plan.SummarizeByStudent(plans),
	})
}
