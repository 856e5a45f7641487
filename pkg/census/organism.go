package census

import (
	"github.com/gnames/gnparser"
)

// Organism checks that name is a binomial scientific name and returns
// its canonical form, "Homo sapiens" for "Homo sapiens Linnaeus, 1758".
func Organism(name string) (string, error) {
	gnp := gnparser.New(gnparser.NewConfig())
	p := gnp.ParseName(name)
	if !p.Parsed || p.Canonical == nil || p.Cardinality != 2 {
		return "", OrganismError(name)
	}
	return p.Canonical.Simple, nil
}
