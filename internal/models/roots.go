package models

// RootProfile is a named pair of root MACs excluded from results.
type RootProfile struct {
	Name  string `json:"name" yaml:"name"`
	Root1 string `json:"root1" yaml:"root1"`
	Root2 string `json:"root2" yaml:"root2"`
}

// RootProfiles mirrors the YAML profiles file.
type RootProfiles struct {
	Profiles []RootProfile `json:"profiles" yaml:"profiles"`
}

// Find returns the profile with the given name.
func (p *RootProfiles) Find(name string) (RootProfile, bool) {
	if p == nil {
		return RootProfile{}, false
	}
	for _, prof := range p.Profiles {
		if prof.Name == name {
			return prof, true
		}
	}
	return RootProfile{}, false
}
