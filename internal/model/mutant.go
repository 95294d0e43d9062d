package model

import "fmt"

// MutationType represents the category of mutation.
type MutationType string

const (
	// MutationArithmetic represents arithmetic operator mutations (+, -, *, /, %).
	MutationArithmetic MutationType = "arithmetic"
	// MutationComparison represents comparison operator mutations (<, <=, >, >=, ==, !=).
	MutationComparison MutationType = "comparison"
	// MutationBoolean represents boolean literal mutations (true <-> false).
	MutationBoolean MutationType = "boolean"
)

// MutantStatus is the lifecycle state of a mutant.
type MutantStatus int

const (
	// NotRun is the initial state; the only state accepted by the scheduler.
	NotRun MutantStatus = iota
	// Killed indicates a covering test failed after baseline filtering.
	Killed
	// Survived indicates all covering tests ran, passed and none timed out.
	Survived
	// Timeout indicates a covering test timed out.
	Timeout
	// NoCoverage is assigned upstream to mutants no test exercises.
	NoCoverage
	// Ignored is assigned upstream by exclusion policy.
	Ignored
	// CompileError is assigned upstream when the mutated code does not build.
	CompileError
)

var statusNames = map[MutantStatus]string{
	NotRun:       "not-run",
	Killed:       "killed",
	Survived:     "survived",
	Timeout:      "timeout",
	NoCoverage:   "no-coverage",
	Ignored:      "ignored",
	CompileError: "compile-error",
}

func (s MutantStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether the status is final for this testing pass.
func (s MutantStatus) Terminal() bool {
	return s != NotRun
}

// Detected reports whether the status counts as caught by the test suite.
func (s MutantStatus) Detected() bool {
	return s == Killed || s == Timeout
}

// Mutant is one candidate code alteration tracked through the
// test-and-verdict lifecycle. ID is assigned at generation time and is
// immutable afterward. AssessingTests is filled in by coverage analysis
// before scheduling; mutants without coverage information carry the
// whole-suite sentinel.
type Mutant struct {
	ID             uint
	Type           MutationType
	Source         Source
	Line           int
	Column         int
	Original       string
	Mutated        string
	MutatedCode    []byte
	Status         MutantStatus
	AssessingTests TestSet
}

// MutantGroup is a transient selection of mutants that share one physical
// test execution. UsedTests is the union of the members' assessing tests
// and defines the test subset the run must cover.
type MutantGroup struct {
	Mutants   []*Mutant
	UsedTests TestSet
}
