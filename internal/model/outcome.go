package model

// RunOutcome is one incremental slice of results emitted by the executor
// during a group's run. Mutants lists the members of the group the slice
// applies to; an executor may emit several outcomes before the run ends.
type RunOutcome struct {
	Mutants  []*Mutant
	Failed   TestSet
	Ran      TestSet
	TimedOut TestSet
}

// Verdict is the persisted record of one mutant's final status.
type Verdict struct {
	MutantID uint         `yaml:"id"`
	Type     MutationType `yaml:"type"`
	File     string       `yaml:"file"`
	Line     int          `yaml:"line"`
	Column   int          `yaml:"column"`
	Original string       `yaml:"original,omitempty"`
	Mutated  string       `yaml:"mutated,omitempty"`
	Status   string       `yaml:"status"`
}

// VerdictFor snapshots a mutant into its persistable form.
func VerdictFor(mu *Mutant) Verdict {
	var file string
	if mu.Source.Origin != nil {
		file = string(mu.Source.Origin.Path)
	}

	return Verdict{
		MutantID: mu.ID,
		Type:     mu.Type,
		File:     file,
		Line:     mu.Line,
		Column:   mu.Column,
		Original: mu.Original,
		Mutated:  mu.Mutated,
		Status:   mu.Status.String(),
	}
}
