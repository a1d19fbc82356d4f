package solicitud

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/usuario"
)

var (
	ErrNotFound = errors.New("solicitud not found")
	// ErrNotPendiente rejects a decision on an already-settled solicitud.
	ErrNotPendiente = errors.New("the solicitud has already been decided")
)

type (
	Repository interface {
		CreateSolicitud(ctx context.Context, s Solicitud) (Solicitud, error)
		QueryAllSolicitudes(ctx context.Context) ([]Solicitud, error)
		GetSolicitudByID(ctx context.Context, id int) (Solicitud, error)
		QuerySolicitudesByDocente(ctx context.Context, idDocente int) ([]Solicitud, error)
		UpdateSolicitud(ctx context.Context, s Solicitud) (Solicitud, error)
		DeleteSolicitudesByID(ctx context.Context, ids ...int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewSolicitud) (Solicitud, error)
		Query(ctx context.Context) ([]Solicitud, error)
		GetByID(ctx context.Context, id int) (Solicitud, error)
		QueryByDocente(ctx context.Context, idDocente int) ([]Solicitud, error)
		Update(ctx context.Context, id int, us UpdateSolicitud) (Solicitud, error)
		Aprobar(ctx context.Context, id int) (Solicitud, error)
		Denegar(ctx context.Context, id int) (Solicitud, error)
		Delete(ctx context.Context, ids ...int) error
	}

	Service struct {
		repo     Repository
		usuarios usuario.ServiceInterface
		mail     core.EmailService
		logger   core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	repo Repository,
	usuarios usuario.ServiceInterface,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		usuarios: usuarios,
		mail:     mailSvc,
		logger:   logger,
	}
}

func (svc *Service) Create(ctx context.Context, ns NewSolicitud) (Solicitud, error) {
	s := Solicitud{
		IDDocente:      ns.IDDocente,
		IDBien:         ns.IDBien,
		Motivo:         ns.Motivo,
		Estado:         EstadoPendiente,
		FechaSolicitud: time.Now().UTC(),
	}
	return svc.repo.CreateSolicitud(ctx, s)
}

func (svc *Service) Query(ctx context.Context) ([]Solicitud, error) {
	return svc.repo.QueryAllSolicitudes(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Solicitud, error) {
	return svc.repo.GetSolicitudByID(ctx, id)
}

func (svc *Service) QueryByDocente(ctx context.Context, idDocente int) ([]Solicitud, error) {
	return svc.repo.QuerySolicitudesByDocente(ctx, idDocente)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateSolicitud) (Solicitud, error) {
	orig, err := svc.repo.GetSolicitudByID(ctx, id)
	if err != nil {
		return Solicitud{}, err
	}
	if !orig.IsPendiente() {
		return Solicitud{}, ErrNotPendiente
	}
	orig.IDBien = us.IDBien
	orig.Motivo = us.Motivo
	return svc.repo.UpdateSolicitud(ctx, orig)
}

func (svc *Service) Aprobar(ctx context.Context, id int) (Solicitud, error) {
	return svc.decide(ctx, id, EstadoAprobada)
}

func (svc *Service) Denegar(ctx context.Context, id int) (Solicitud, error) {
	return svc.decide(ctx, id, EstadoDenegada)
}

// decide settles a PENDIENTE solicitud and notifies the docente by email.
// The notification is best-effort; a mail failure never rolls back the
// decision.
func (svc *Service) decide(ctx context.Context, id int, estado string) (Solicitud, error) {
	s, err := svc.repo.GetSolicitudByID(ctx, id)
	if err != nil {
		return Solicitud{}, err
	}
	if !s.IsPendiente() {
		return Solicitud{}, ErrNotPendiente
	}

	s.Estado = estado
	s, err = svc.repo.UpdateSolicitud(ctx, s)
	if err != nil {
		return Solicitud{}, err
	}

	svc.notifyDocente(ctx, s)
	return s, nil
}

func (svc *Service) notifyDocente(ctx context.Context, s Solicitud) {
	docente, err := svc.usuarios.GetByID(ctx, s.IDDocente)
	if err != nil {
		svc.logger.Error("looking up docente for solicitud notification", err)
		return
	}

	verdict := "aprobada"
	if s.Estado == EstadoDenegada {
		verdict = "denegada"
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: docente.Nombre, Address: docente.Email}},
		Subject: fmt.Sprintf("Solicitud de cambio #%d %s", s.IDSolicitud, verdict),
		Body: fmt.Sprintf(
			"Estimado/a %s,\n\nSu solicitud de cambio #%d ha sido %s.\n\nMotivo registrado: %s\n",
			docente.Nombre, s.IDSolicitud, verdict, s.Motivo,
		),
	}
	svc.mail.SendMessages(msg)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteSolicitudesByID(ctx, ids...)
}
