package domain

// ImportOutcome is the result of one import resolution attempt.
// Failures are reported through Kind and Err; the resolver never aborts a run.
type ImportOutcome struct {
	Success      bool
	Target       CanonicalPath
	Content      string
	Errors       []string
	Warnings     []string
	WasCached    bool
	WasDuplicate bool
	// CycleChain is set when Kind is KindCircularDependency; first and last elements are equal.
	CycleChain []CanonicalPath
	Kind       ErrorKind
	Err        error
}

// Failed builds an unsuccessful outcome for err.
func Failed(target CanonicalPath, err error) ImportOutcome {
	return ImportOutcome{
		Target: target,
		Errors: []string{err.Error()},
		Kind:   KindOf(err),
		Err:    err,
	}
}

// Statistics is a read-only summary derived from the ledger and graph on demand.
type Statistics struct {
	TotalImports           int     `json:"totalImports"`
	UniqueTargets          int     `json:"uniqueTargets"`
	DuplicateImports       int     `json:"duplicateImports"`
	CircularDependencies   int     `json:"circularDependencies"`
	CachedLoads            int     `json:"cachedLoads"`
	AverageDependencyDepth float64 `json:"averageDependencyDepth"`
}
