package entity

import "time"

// Location representa una ubicación física donde se guarda stock (oficina, bodega, almacén).
// El nombre se usa también para emparejar datos históricos e importaciones.
type Location struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
