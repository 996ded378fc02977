package models

// BackendSettings holds the connection settings stored under a backend's name.
type BackendSettings struct {
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	Project  string `json:"project" yaml:"project" mapstructure:"project"`
}

// CopyParams are extra parameters merged into a copied experiment's content.params.
type CopyParams map[string]any

// ParamsFile is the on-disk shape accepted by `start --from-file`.
type ParamsFile struct {
	Params CopyParams `json:"params" yaml:"params" toml:"params"`
}
