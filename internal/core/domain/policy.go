package domain

// ResolutionPolicy decides whether module-root or working-directory resolution wins
// for a relative path that could be satisfied by both.
type ResolutionPolicy uint8

const (
	// PolicyModuleFirst resolves a known module name under the module root before the working directory.
	PolicyModuleFirst ResolutionPolicy = iota
	// PolicyWorkingDirFirst uses the working directory when the file exists there.
	PolicyWorkingDirFirst
	// PolicyWorkingDirOnly never consults the module catalog.
	PolicyWorkingDirOnly
)

var policyNames = map[ResolutionPolicy]string{
	PolicyModuleFirst:     "module-first",
	PolicyWorkingDirFirst: "working-dir-first",
	PolicyWorkingDirOnly:  "working-dir-only",
}

// String returns the configuration spelling of the policy.
func (p ResolutionPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePolicy maps a configuration spelling to its policy.
func ParsePolicy(s string) (ResolutionPolicy, bool) {
	for p, name := range policyNames {
		if name == s {
			return p, true
		}
	}
	return PolicyModuleFirst, false
}

// PolicyNames lists every accepted policy spelling.
func PolicyNames() []string {
	return []string{
		PolicyModuleFirst.String(),
		PolicyWorkingDirFirst.String(),
		PolicyWorkingDirOnly.String(),
	}
}
