package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mentora/backend/core/schedule"
	"github.com/mentora/backend/core/selection"
)

type selectionApi struct {
	svc selection.ServiceInterface
}

func registerSelectionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc selection.ServiceInterface) {
	api := selectionApi{svc: svc}

	sg := g.Group("/selection", jwt)
	sg.GET("", api.retrieve)
	sg.PUT("", api.persist)
	sg.DELETE("", api.clear)
}

type (
	persistSelectionRequest struct {
		SlotID string `json:"slot_id"`
	}

	selectionResponse struct {
		Slot     *schedule.Slot `json:"slot"`
		Selected bool           `json:"selected"`
	}
)

// Handlers

// retrieve returns the actor's working slot, reconciled against the slot
// store; a stale selection comes back as selected=false, not an error.
func (api *selectionApi) retrieve(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	slot, ok, err := api.svc.Reconcile(ctx.Request().Context(), actor.ID)
	if err != nil {
		return errors.Wrap(err, "reconciling selection")
	}
	resp := selectionResponse{Selected: ok}
	if ok {
		resp.Slot = &slot
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *selectionApi) persist(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	var data persistSelectionRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to persistSelectionRequest")
	}

	sel, err := api.svc.Persist(ctx.Request().Context(), actor.ID, data.SlotID)
	if err != nil {
		return errors.Wrap(err, "persisting selection")
	}
	return ctx.JSON(http.StatusOK, sel)
}

func (api *selectionApi) clear(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Clear(ctx.Request().Context(), actor.ID); err != nil {
		return errors.Wrap(err, "clearing selection")
	}
	return ctx.NoContent(http.StatusNoContent)
}
