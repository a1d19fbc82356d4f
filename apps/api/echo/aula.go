package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/aula"
)

type aulaApi struct {
	opts *Options
}

func registerAulaAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := aulaApi{opts: opts}

	ag := g.Group("/aulas", jwt, sess, roleGuard(opts.Policy, "/inventario"))
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *aulaApi) create(ctx echo.Context) error {
	var data aula.NewAula
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAula")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	a, err := api.opts.AulaSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating aula")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *aulaApi) query(ctx echo.Context) error {
	aulas, err := api.opts.AulaSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying aulas")
	}
	return ctx.JSON(http.StatusOK, aulas)
}

func (api *aulaApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	a, err := api.opts.AulaSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == aula.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting aula")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *aulaApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	orig, err := api.opts.AulaSvc.GetByID(reqCtx, id)
	if err != nil {
		if errors.Cause(err) == aula.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting aula")
	}

	var data aula.UpdateAula
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAula")
	}
	if err = data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	a, err := api.opts.AulaSvc.Update(reqCtx, id, data)
	if err != nil {
		return errors.Wrap(err, "updating aula")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *aulaApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.AulaSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting aula")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *aulaApi) destroyMultiple(ctx echo.Context) error {
	ids, err := queryIDs(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.AulaSvc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting aulas")
	}
	return ctx.NoContent(http.StatusNoContent)
}
