package domain

// Item es un objeto de la tienda Bingo que se puede comprar con puntos.
type Item struct {
	ID            string
	Tag           string // tag del auction house; vacío = usar ID
	Points        int    // coste en puntos Bingo (>= 0)
	Prerequisites []Prerequisite
}

// Prerequisite es un objeto que hay que entregar (amount veces) para obtener otro.
type Prerequisite struct {
	ItemID string
	Amount int
}

// APITag devuelve el tag con el que se consulta el item en la API de subastas.
func (i Item) APITag() string {
	if i.Tag != "" {
		return i.Tag
	}
	return i.ID
}

// HasPrerequisites devuelve true si el item requiere otros items.
func (i Item) HasPrerequisites() bool {
	return len(i.Prerequisites) > 0
}

// TrackedItem es un item cuyo precio hay que consultar en cada ciclo.
type TrackedItem struct {
	ID  string
	Tag string
}
