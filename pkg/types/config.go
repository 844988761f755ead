package types

// CountConfig holds settings for pair extraction and logical inference.
type CountConfig struct {
	// Logical enables logical inference between overlapping observations.
	Logical bool `json:"logical" yaml:"logical"`

	// SkipSelf skips the comparison of an observation with itself when the
	// batch doubles as the logical database.
	SkipSelf bool `json:"skip_self" yaml:"skip_self"`
}

// RankConfig holds settings for the ranking stage.
type RankConfig struct {
	// Method selects the estimator: ratio, pvalue, hoaglin, btl, eigen, or trans.
	Method string `json:"method" yaml:"method"`

	// Avg selects row averaging for ratio and pvalue: all or exist (default exist).
	Avg string `json:"avg" yaml:"avg"`

	// Calibration selects the score transform: minmax, quantile, sig3iqr,
	// platt, or isotonic (default minmax).
	Calibration string `json:"calibration" yaml:"calibration"`

	// MaxIter caps the btl iterations (default 1000).
	MaxIter int `json:"max_iter" yaml:"max_iter"`

	// Tol is the btl convergence tolerance on the infinity norm (default 1e-8).
	Tol float64 `json:"tol" yaml:"tol"`

	// NoPrefit starts btl from uniform strengths instead of ratio row sums.
	NoPrefit bool `json:"no_prefit" yaml:"no_prefit"`

	// Rounds is the number of trans simulation steps (default 3).
	Rounds int `json:"rounds" yaml:"rounds"`
}

// StoreConfig holds settings for the observation store.
type StoreConfig struct {
	// DataDir is the base directory (contains surveys/ and index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Count configures how ingested batches are counted.
	Count CountConfig `json:"count" yaml:"count"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Count CountConfig `json:"count" yaml:"count"`
	Rank  RankConfig  `json:"rank" yaml:"rank"`
	Store StoreConfig `json:"store" yaml:"store"`
}
