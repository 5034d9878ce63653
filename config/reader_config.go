package config

import (
	"path/filepath"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Defaults applied to a reader configuration.
const (
	DefaultDesiredHeight = 1440
	DefaultDesiredWidth  = 1920
	DefaultEmbeddingDir  = "embeddings"
	DefaultEmbeddingDim  = 512
	DefaultEmbeddingExt  = ".npy"
	// ManifestFileName is the name of the manifest inside a capture directory.
	ManifestFileName = "transforms.json"
)

// ReaderConfig configures how a capture directory is replayed.
type ReaderConfig struct {
	BaseDir  string `json:"basedir"`
	Sequence string `json:"sequence"`

	Stride int `json:"stride"`
	Start  int `json:"start"`
	// End is exclusive; -1 means through the last frame.
	End int `json:"end"`

	DesiredHeight int `json:"desired_height"`
	DesiredWidth  int `json:"desired_width"`

	LoadEmbeddings bool   `json:"load_embeddings"`
	EmbeddingDir   string `json:"embedding_dir"`
	EmbeddingDim   int    `json:"embedding_dim"`
	EmbeddingExt   string `json:"embedding_ext"`
}

// NewReaderConfig returns a configuration holding every default.
func NewReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		Stride:        1,
		End:           -1,
		DesiredHeight: DefaultDesiredHeight,
		DesiredWidth:  DefaultDesiredWidth,
		EmbeddingDir:  DefaultEmbeddingDir,
		EmbeddingDim:  DefaultEmbeddingDim,
		EmbeddingExt:  DefaultEmbeddingExt,
	}
}

// Root returns the capture directory.
func (cfg *ReaderConfig) Root() string {
	return filepath.Join(cfg.BaseDir, cfg.Sequence)
}

// ManifestPath returns the path of the capture's manifest.
func (cfg *ReaderConfig) ManifestPath() string {
	return filepath.Join(cfg.Root(), ManifestFileName)
}

// Validate ensures all parts of the config are valid.
func (cfg *ReaderConfig) Validate(path string) error {
	if cfg.BaseDir == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "basedir")
	}
	if cfg.Stride < 1 {
		return utils.NewConfigValidationError(path, errors.Errorf("stride must be at least 1, got %d", cfg.Stride))
	}
	if cfg.Start < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("start cannot be negative, got %d", cfg.Start))
	}
	if cfg.End != -1 && cfg.End <= cfg.Start {
		return utils.NewConfigValidationError(path, errors.Errorf("end must be -1 or greater than start, got %d", cfg.End))
	}
	if cfg.DesiredHeight <= 0 || cfg.DesiredWidth <= 0 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("desired size must be positive, got %dx%d", cfg.DesiredWidth, cfg.DesiredHeight))
	}
	if cfg.LoadEmbeddings {
		if cfg.EmbeddingDir == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "embedding_dir")
		}
		if cfg.EmbeddingDim <= 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("embedding_dim must be positive, got %d", cfg.EmbeddingDim))
		}
	}
	return nil
}
