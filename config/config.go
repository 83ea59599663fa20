package config

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string
	BearerToken  string

	// External document tooling. Empty values fall back to the binaries
	// on PATH; zero DPI falls back to the OCR default.
	PdftotextBin string
	PdftoppmBin  string
	TesseractBin string
	OCRDPI       int
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}
