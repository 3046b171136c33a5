package secret

import "go.uber.org/zap"

// Generator wraps a Source and logger to provide logged secret draws.
// Draws are logged at debug level with the range and the drawn value.
type Generator struct {
	src    Source
	logger *zap.Logger
}

// NewGenerator creates a Generator that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewGenerator(src Source, logger *zap.Logger) *Generator {
	return &Generator{src: src, logger: logger}
}

// Draw returns a value in [min, max] and logs it.
//
// Precondition: min <= max.
// Postcondition: min <= result <= max; draw logged.
func (g *Generator) Draw(min, max int) int {
	v := Draw(min, max, g.src)
	g.logger.Debug("secret drawn",
		zap.Int("min", min),
		zap.Int("max", max),
		zap.Int("secret", v),
	)
	return v
}
