package reactor

import (
	"fmt"

	"github.com/san-kum/surfkin/internal/chem"
)

// SpeciesIndex assigns each tracked species a stable integer index. Core
// species occupy indices [0, NumCore); edge species are appended after.
// Index assignment is fixed for the lifetime of one simulation.
type SpeciesIndex struct {
	species []*chem.Species
	index   map[*chem.Species]int
	numCore int
}

// BuildSpeciesIndex indexes core then edge species, rejecting duplicates.
func BuildSpeciesIndex(core, edge []*chem.Species) (*SpeciesIndex, error) {
	ix := &SpeciesIndex{
		species: make([]*chem.Species, 0, len(core)+len(edge)),
		index:   make(map[*chem.Species]int, len(core)+len(edge)),
		numCore: len(core),
	}
	for _, sp := range append(append([]*chem.Species{}, core...), edge...) {
		if _, ok := ix.index[sp]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSpecies, sp.Label)
		}
		ix.index[sp] = len(ix.species)
		ix.species = append(ix.species, sp)
	}
	return ix, nil
}

func (ix *SpeciesIndex) Len() int     { return len(ix.species) }
func (ix *SpeciesIndex) NumCore() int { return ix.numCore }

// At returns the species at index i.
func (ix *SpeciesIndex) At(i int) *chem.Species { return ix.species[i] }

// Lookup returns the index of sp.
func (ix *SpeciesIndex) Lookup(sp *chem.Species) (int, bool) {
	i, ok := ix.index[sp]
	return i, ok
}

// LookupLabel returns the index of the species with the given label.
func (ix *SpeciesIndex) LookupLabel(label string) (int, bool) {
	for i, sp := range ix.species {
		if sp.Label == label {
			return i, true
		}
	}
	return 0, false
}

// IsCore reports whether index i belongs to the core block.
func (ix *SpeciesIndex) IsCore(i int) bool { return i < ix.numCore }

// ReactionIndex assigns each tracked reaction a stable integer index, core
// reactions first, and validates that every participant resolves in the
// species index.
type ReactionIndex struct {
	reactions []*chem.Reaction
	numCore   int
}

func BuildReactionIndex(core, edge []*chem.Reaction, species *SpeciesIndex) (*ReactionIndex, error) {
	ix := &ReactionIndex{
		reactions: make([]*chem.Reaction, 0, len(core)+len(edge)),
		numCore:   len(core),
	}
	for _, rxn := range append(append([]*chem.Reaction{}, core...), edge...) {
		for _, sp := range rxn.Reactants {
			if _, ok := species.Lookup(sp); !ok {
				return nil, fmt.Errorf("%w: %s in %s", ErrUnknownSpecies, sp.Label, rxn)
			}
		}
		for _, sp := range rxn.Products {
			if _, ok := species.Lookup(sp); !ok {
				return nil, fmt.Errorf("%w: %s in %s", ErrUnknownSpecies, sp.Label, rxn)
			}
		}
		ix.reactions = append(ix.reactions, rxn)
	}
	return ix, nil
}

func (ix *ReactionIndex) Len() int                { return len(ix.reactions) }
func (ix *ReactionIndex) NumCore() int            { return ix.numCore }
func (ix *ReactionIndex) At(i int) *chem.Reaction { return ix.reactions[i] }
func (ix *ReactionIndex) IsCore(i int) bool       { return i < ix.numCore }
