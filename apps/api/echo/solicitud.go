package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/solicitud"
)

type solicitudApi struct {
	opts *Options
}

func registerSolicitudAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := solicitudApi{opts: opts}

	sg := g.Group("/solicitudes", jwt, sess, roleGuard(opts.Policy, "/solicitudes-cambio"))
	sg.GET("", api.query)
	sg.DELETE("", api.destroyMultiple)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.PUT("/aprobar", api.aprobar)
	dg.PUT("/denegar", api.denegar)
	dg.DELETE("", api.destroy)

	// docentes file and follow their own solicitudes from their portal
	g.POST("/solicitudes", api.create,
		jwt, sess, roleGuard(opts.Policy, "/portal-docente"))
	g.GET("/solicitudes/docente/:id", api.queryByDocente,
		jwt, sess, roleGuard(opts.Policy, "/portal-docente"))
}

func (api *solicitudApi) create(ctx echo.Context) error {
	var data solicitud.NewSolicitud
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSolicitud")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	s, err := api.opts.SolicitudSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating solicitud")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *solicitudApi) query(ctx echo.Context) error {
	sols, err := api.opts.SolicitudSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying solicitudes")
	}
	return ctx.JSON(http.StatusOK, sols)
}

func (api *solicitudApi) queryByDocente(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	sols, err := api.opts.SolicitudSvc.QueryByDocente(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying solicitudes by docente")
	}
	return ctx.JSON(http.StatusOK, sols)
}

func (api *solicitudApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	s, err := api.opts.SolicitudSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == solicitud.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting solicitud")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *solicitudApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	orig, err := api.opts.SolicitudSvc.GetByID(reqCtx, id)
	if err != nil {
		if errors.Cause(err) == solicitud.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting solicitud")
	}

	var data solicitud.UpdateSolicitud
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSolicitud")
	}
	if err = data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	s, err := api.opts.SolicitudSvc.Update(reqCtx, id, data)
	if err != nil {
		return solicitudError(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *solicitudApi) aprobar(ctx echo.Context) error {
	return api.decide(ctx, api.opts.SolicitudSvc.Aprobar)
}

func (api *solicitudApi) denegar(ctx echo.Context) error {
	return api.decide(ctx, api.opts.SolicitudSvc.Denegar)
}

func (api *solicitudApi) decide(
	ctx echo.Context,
	decideFn func(ctx context.Context, id int) (solicitud.Solicitud, error),
) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	s, err := decideFn(ctx.Request().Context(), id)
	if err != nil {
		return solicitudError(err)
	}
	return ctx.JSON(http.StatusOK, s)
}

func solicitudError(err error) error {
	switch errors.Cause(err) {
	case solicitud.ErrNotFound:
		return errHttpNotFound
	case solicitud.ErrNotPendiente:
		return echo.NewHTTPError(http.StatusConflict, solicitud.ErrNotPendiente.Error())
	default:
		return errors.Wrap(err, "settling solicitud")
	}
}

func (api *solicitudApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.SolicitudSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting solicitud")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *solicitudApi) destroyMultiple(ctx echo.Context) error {
	ids, err := queryIDs(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.SolicitudSvc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting solicitudes")
	}
	return ctx.NoContent(http.StatusNoContent)
}
