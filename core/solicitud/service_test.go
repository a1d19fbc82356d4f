package solicitud_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/solicitud"
	"github.com/yavirac/inventario/core/usuario"
	emailsvc "github.com/yavirac/inventario/services/email"
	inmemdb "github.com/yavirac/inventario/storage/database/inmem"
	testutil "github.com/yavirac/inventario/tests"
)

func newTestService(t *testing.T) (*solicitud.Service, usuario.Repository, *emailsvc.ConsoleServiceMock) {
	t.Helper()
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUsuarioRepository(db)
	mailMock := emailsvc.NewConsoleServiceMock(&core.Config{
		AppName:            "InventarioTest",
		DefaultFromName:    "Inventario",
		DefaultFromAddress: "noreply@yavirac.edu.ec",
	})

	svc := solicitud.NewService(
		inmemdb.NewSolicitudRepository(db),
		usuario.NewService(usrRepo),
		mailMock,
		testutil.NewLogger(),
	)
	return svc, usrRepo, mailMock
}

func Test_Service_Aprobar(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, mailMock := newTestService(t)
	docente := testutil.CreateUsuario(t, usrRepo, "Luis Mora", "1712345678", "luis@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)

	s, err := svc.Create(ctx, solicitud.NewSolicitud{
		IDDocente: docente.IDUsuario,
		IDBien:    3,
		Motivo:    "proyector dañado",
	})
	require.NoError(t, err)
	assert.Equal(t, solicitud.EstadoPendiente, s.Estado)

	s, err = svc.Aprobar(ctx, s.IDSolicitud)
	require.NoError(t, err)
	assert.Equal(t, solicitud.EstadoAprobada, s.Estado)

	// the docente is notified once
	require.Equal(t, 1, mailMock.SentCount())
	msg := mailMock.Sent[0]
	assert.Equal(t, "luis@yavirac.edu.ec", msg.To[0].Address)
	assert.Contains(t, msg.Subject, "aprobada")

	// a settled solicitud cannot be decided again
	_, err = svc.Aprobar(ctx, s.IDSolicitud)
	assert.Equal(t, solicitud.ErrNotPendiente, err)
	_, err = svc.Denegar(ctx, s.IDSolicitud)
	assert.Equal(t, solicitud.ErrNotPendiente, err)
	assert.Equal(t, 1, mailMock.SentCount())
}

func Test_Service_Denegar(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, mailMock := newTestService(t)
	docente := testutil.CreateUsuario(t, usrRepo, "Marta Paz", "1787654321", "marta@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)

	s, err := svc.Create(ctx, solicitud.NewSolicitud{
		IDDocente: docente.IDUsuario,
		IDBien:    5,
		Motivo:    "silla rota",
	})
	require.NoError(t, err)

	s, err = svc.Denegar(ctx, s.IDSolicitud)
	require.NoError(t, err)
	assert.Equal(t, solicitud.EstadoDenegada, s.Estado)

	require.Equal(t, 1, mailMock.SentCount())
	assert.Contains(t, mailMock.Sent[0].Subject, "denegada")
}

func Test_Service_Update_settledIsFrozen(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, _ := newTestService(t)
	docente := testutil.CreateUsuario(t, usrRepo, "Luis Mora", "1712345678", "luis@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)

	s, err := svc.Create(ctx, solicitud.NewSolicitud{IDDocente: docente.IDUsuario, IDBien: 3, Motivo: "cambio"})
	require.NoError(t, err)
	_, err = svc.Aprobar(ctx, s.IDSolicitud)
	require.NoError(t, err)

	_, err = svc.Update(ctx, s.IDSolicitud, solicitud.UpdateSolicitud{Motivo: "otro motivo"})
	assert.Equal(t, solicitud.ErrNotPendiente, err)
}

func Test_Service_decisionSurvivesMissingDocente(t *testing.T) {
	ctx := context.Background()
	svc, _, mailMock := newTestService(t)

	s, err := svc.Create(ctx, solicitud.NewSolicitud{IDDocente: 99, IDBien: 3, Motivo: "cambio"})
	require.NoError(t, err)

	// the decision lands even though the notification cannot be delivered
	s, err = svc.Aprobar(ctx, s.IDSolicitud)
	require.NoError(t, err)
	assert.Equal(t, solicitud.EstadoAprobada, s.Estado)
	assert.Equal(t, 0, mailMock.SentCount())
}

func Test_Service_QueryByDocente(t *testing.T) {
	ctx := context.Background()
	svc, usrRepo, _ := newTestService(t)
	luis := testutil.CreateUsuario(t, usrRepo, "Luis", "1712345678", "luis@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)
	marta := testutil.CreateUsuario(t, usrRepo, "Marta", "1787654321", "marta@yavirac.edu.ec", "pwd", usuario.RoleDocente, true)

	_, err := svc.Create(ctx, solicitud.NewSolicitud{IDDocente: luis.IDUsuario, IDBien: 1, Motivo: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, solicitud.NewSolicitud{IDDocente: marta.IDUsuario, IDBien: 2, Motivo: "b"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, solicitud.NewSolicitud{IDDocente: luis.IDUsuario, IDBien: 3, Motivo: "c"})
	require.NoError(t, err)

	sols, err := svc.QueryByDocente(ctx, luis.IDUsuario)
	require.NoError(t, err)
	assert.Len(t, sols, 2)
	for _, s := range sols {
		assert.Equal(t, luis.IDUsuario, s.IDDocente)
	}
}
