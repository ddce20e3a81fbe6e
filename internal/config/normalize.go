package config

import (
	"os"
	"strings"
)

// credentialEnv maps empty credential fields to their conventional
// environment variables.
var credentialEnv = []struct {
	field func(*Config) *string
	env   string
}{
	{func(c *Config) *string { return &c.Translate.GroqAPIKey }, "GROQ_API_KEY"},
	{func(c *Config) *string { return &c.Translate.GeminiAPIKey }, "GEMINI_API_KEY"},
	{func(c *Config) *string { return &c.Translate.DeepLAPIKey }, "DEEPL_API_KEY"},
	{func(c *Config) *string { return &c.Translate.OpenRouterAPIKey }, "OPENROUTER_API_KEY"},
	{func(c *Config) *string { return &c.Translate.OpenAIAPIKey }, "OPENAI_API_KEY"},
	{func(c *Config) *string { return &c.TTS.GoogleAPIKey }, "GOOGLE_TTS_API_KEY"},
}

func (c *Config) normalize() error {
	for _, entry := range []*string{
		&c.Paths.OutputDir, &c.Paths.WorkDir, &c.Paths.DownloadDir, &c.Paths.LogDir,
	} {
		expanded, err := expandPath(strings.TrimSpace(*entry))
		if err != nil {
			return err
		}
		*entry = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.TTS.DefaultEngine = strings.ToLower(strings.TrimSpace(c.TTS.DefaultEngine))
	c.Transcribe.Model = strings.ToLower(strings.TrimSpace(c.Transcribe.Model))
	c.Download.Resolution = strings.ToLower(strings.TrimSpace(c.Download.Resolution))

	for _, cred := range credentialEnv {
		field := cred.field(c)
		*field = strings.TrimSpace(*field)
		if *field == "" {
			*field = strings.TrimSpace(os.Getenv(cred.env))
		}
	}
	return nil
}
