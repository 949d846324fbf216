package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/grade"
)

var errBadPercentageParam = "percentage must be an integer between 0 and 100"

type gradeApi struct {
	svc        grade.ServiceInterface
	validate   *validator.Validate
	translator ut.Translator
}

func registerGradeAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc grade.ServiceInterface,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := gradeApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	gg := g.Group("/grades", jwt)
	gg.PUT("", api.upsert, mentorMiddleware())
	gg.GET("", api.query)
	gg.GET("/:id", api.retrieve)
	gg.DELETE("/:id", api.destroy, mentorMiddleware())

	lg := g.Group("/achievement-levels", jwt)
	lg.GET("", api.queryLevels)
	lg.GET("/by-percentage", api.levelByPercentage)
}

// Handlers

func (api *gradeApi) upsert(ctx echo.Context) error {
	var data grade.UpsertGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertGrade")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	g, err := api.svc.Upsert(ctx.Request().Context(), actor.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) query(ctx echo.Context) error {
	var filter grade.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	var ordering Ordering
	ordering.Bind(ctx, "created_at", "updated_at", "percentage")

	grades, err := api.svc.Query(ctx.Request().Context(), &filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	g, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *gradeApi) queryLevels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grade.Levels())
}

type levelResponse struct {
	grade.Level
	DefaultPercentage int `json:"default_percentage"`
}

func (api *gradeApi) levelByPercentage(ctx echo.Context) error {
	pct, err := strconv.Atoi(ctx.QueryParam("percentage"))
	if err != nil || pct < 0 || pct > 100 {
		return core.NewValidationError(nil, core.FieldError{Field: "percentage", Error: errBadPercentageParam})
	}

	lvl, ok := grade.LevelFor(pct)
	if !ok {
		return grade.ErrNotFound
	}
	def, _ := grade.DefaultPercentageFor(lvl.Code)
	return ctx.JSON(http.StatusOK, levelResponse{
		Level:             lvl,
		DefaultPercentage: def,
	})
}
