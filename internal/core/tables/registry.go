// Package tables declares the supported document types. Import it wherever
// the process-wide registry is needed.
package tables

import (
	"sync"

	"github.com/JonMunkholm/tradedoc/internal/core"
)

// File name hint priorities, lowest tried first. A PI/PE prefix outranks
// every other hint; the generic packing list words come last.
const (
	hintShipmentPrefix = iota * 10
	hintRawMaterial
	hintFinishedProduct
	hintBillOfMaterials
	hintPackingList
)

// Definitions returns fresh copies of every document definition.
func Definitions() []core.Definition {
	return []core.Definition{
		FinishedProduct(),
		RawMaterial(),
		BillOfMaterials(),
		PackingList(),
	}
}

// Registry returns the shared registry, built on first use. The registry is
// read-only and safe for concurrent use.
var Registry = sync.OnceValues(func() (*core.Registry, error) {
	return core.NewRegistry(Definitions()...)
})

// MustRegistry is Registry for callers that cannot proceed without it.
func MustRegistry() *core.Registry {
	r, err := Registry()
	if err != nil {
		panic("tables: " + err.Error())
	}
	return r
}
