package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/asignacion"
)

type asignacionApi struct {
	opts *Options
}

func registerAsignacionAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := asignacionApi{opts: opts}

	ag := g.Group("/asignaciones", jwt, sess, roleGuard(opts.Policy, "/asignacion-aula"))
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	// a docente reads their own aula through a separate route
	g.GET("/asignaciones/usuario/:id", api.queryByUsuario,
		jwt, sess, roleGuard(opts.Policy, "/mi-aula-asignada"))
}

func (api *asignacionApi) create(ctx echo.Context) error {
	var data asignacion.NewAsignacion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAsignacion")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	a, err := api.opts.AsignacionSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating asignación")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *asignacionApi) query(ctx echo.Context) error {
	asigs, err := api.opts.AsignacionSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying asignaciones")
	}
	return ctx.JSON(http.StatusOK, asigs)
}

func (api *asignacionApi) queryByUsuario(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	asigs, err := api.opts.AsignacionSvc.QueryByUsuario(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying asignaciones by usuario")
	}
	return ctx.JSON(http.StatusOK, asigs)
}

func (api *asignacionApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	a, err := api.opts.AsignacionSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == asignacion.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting asignación")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *asignacionApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	orig, err := api.opts.AsignacionSvc.GetByID(reqCtx, id)
	if err != nil {
		if errors.Cause(err) == asignacion.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting asignación")
	}

	var data asignacion.UpdateAsignacion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAsignacion")
	}
	if err = data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	a, err := api.opts.AsignacionSvc.Update(reqCtx, id, data)
	if err != nil {
		return errors.Wrap(err, "updating asignación")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *asignacionApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.AsignacionSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting asignación")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *asignacionApi) destroyMultiple(ctx echo.Context) error {
	ids, err := queryIDs(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.AsignacionSvc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting asignaciones")
	}
	return ctx.NoContent(http.StatusNoContent)
}
