package inmemdb

import (
	"sync"

	"github.com/yavirac/inventario/core/asignacion"
	"github.com/yavirac/inventario/core/aula"
	"github.com/yavirac/inventario/core/bien"
	"github.com/yavirac/inventario/core/reporte"
	"github.com/yavirac/inventario/core/solicitud"
	"github.com/yavirac/inventario/core/usuario"
)

// DB holds one mutex-guarded table per resource. It backs tests and demo
// setups without a running Postgres.
type DB struct {
	usuario    *usuarioTable
	aula       *aulaTable
	bien       *bienTable
	asignacion *asignacionTable
	solicitud  *solicitudTable
	reporte    *reporteTable
}

func NewDB() *DB {
	return &DB{
		usuario:    &usuarioTable{table: make(map[int]*usuario.Usuario)},
		aula:       &aulaTable{table: make(map[int]*aula.Aula)},
		bien:       &bienTable{table: make(map[int]*bien.Bien)},
		asignacion: &asignacionTable{table: make(map[int]*asignacion.Asignacion)},
		solicitud:  &solicitudTable{table: make(map[int]*solicitud.Solicitud)},
		reporte:    &reporteTable{table: make(map[int]*reporte.Reporte)},
	}
}

type usuarioTable struct {
	mutex   sync.RWMutex
	pkCount int
	table   map[int]*usuario.Usuario
}

type aulaTable struct {
	mutex   sync.RWMutex
	pkCount int
	table   map[int]*aula.Aula
}

type bienTable struct {
	mutex   sync.RWMutex
	pkCount int
	table   map[int]*bien.Bien
}

type asignacionTable struct {
	mutex   sync.RWMutex
	pkCount int
	table   map[int]*asignacion.Asignacion
}

type solicitudTable struct {
	mutex   sync.RWMutex
	pkCount int
	table   map[int]*solicitud.Solicitud
}

type reporteTable struct {
	mutex   sync.RWMutex
	pkCount int
	table   map[int]*reporte.Reporte
}
