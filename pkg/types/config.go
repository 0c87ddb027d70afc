package types

// GeneratorConfig holds settings for the QR generation stage.
type GeneratorConfig struct {
	// OutputDir is the directory the numbered QR images are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Count is the number of codes to generate (default 30).
	Count int `json:"count" yaml:"count"`

	// LabelPrefix is prepended to the index to form each payload
	// (default "QR_numero_").
	LabelPrefix string `json:"label_prefix" yaml:"label_prefix"`

	// Size is the width and height of each image in pixels (default 300).
	Size int `json:"size" yaml:"size"`

	// Workers bounds the number of concurrent encodes. 0 means no limit.
	Workers int `json:"workers" yaml:"workers"`
}

// RasterConfig holds settings for the PDF rasterization stage.
type RasterConfig struct {
	// OutputDir is the root under which a per-document folder is created.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DPI is the render resolution (default 150).
	DPI int `json:"dpi" yaml:"dpi"`

	// FirstPage and LastPage select a page range. 0 means unbounded.
	FirstPage int `json:"first_page" yaml:"first_page"`
	LastPage  int `json:"last_page" yaml:"last_page"`

	// Prefix is the page filename prefix (default "page").
	Prefix string `json:"prefix" yaml:"prefix"`
}

// ScanConfig holds settings for the folder QR-recovery stage.
type ScanConfig struct {
	// Folder is the directory to scan (default: the output directory).
	Folder string `json:"folder" yaml:"folder"`

	// ReportPath, when set, receives the scan result as YAML or JSON
	// depending on its extension.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// LedgerConfig holds settings for the scan history database.
type LedgerConfig struct {
	// Path is the SQLite database file
	// (default "<output_dir>/.qrbatch/ledger.db").
	Path string `json:"path" yaml:"path"`

	// Disabled turns off ledger writes.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	OutputDir string          `json:"output_dir" yaml:"output_dir"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Raster    RasterConfig    `json:"raster" yaml:"raster"`
	Scan      ScanConfig      `json:"scan" yaml:"scan"`
	Ledger    LedgerConfig    `json:"ledger" yaml:"ledger"`
}
