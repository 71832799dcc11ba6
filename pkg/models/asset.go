package models

// Asset is identity and taxonomy for one pharmaceutical R&D program. It is
// immutable from the engine's point of view: the engine only ever reads an
// Asset's attributes to label results, never to drive the valuation math
// (that comes entirely from the Asset's Snapshots).
type Asset struct {
	ID               int
	CompoundName     string
	TherapeuticArea  string
	Indication       string
	CurrentPhase     string
	IsInternal       bool
	InnovationClass  string
}
