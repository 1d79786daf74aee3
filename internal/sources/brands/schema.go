package brands

// SeedConfig is the top-level structure of brands.yaml.
//
//	brands:
//	  - Samsung
//	  - LG
//	aliases:
//	  lg electronics: LG
type SeedConfig struct {
	Brands  []string          `yaml:"brands"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
}
