package config

// RepositoryFile is the on-disk layout of obr.yaml.
type RepositoryFile struct {
	Name          string   `yaml:"name"`
	Locations     []string `yaml:"locations"`
	Cache         string   `yaml:"cache"`
	Modes         []string `yaml:"modes"`
	ReferralDepth *int     `yaml:"referralDepth"`
	Timeout       string   `yaml:"timeout"`
}
