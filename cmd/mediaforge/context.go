package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"mediaforge/internal/config"
	"mediaforge/internal/download"
	"mediaforge/internal/dubbing"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/audio"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/media/ffprobe"
	"mediaforge/internal/media/video"
	"mediaforge/internal/transcribe"
	"mediaforge/internal/translate"
	"mediaforge/internal/tts"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string
	formatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error

	lock *flock.Flock
}

func newCommandContext(configFlag, levelFlag, formatFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		levelFlag:  levelFlag,
		formatFlag: formatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logErr = err
			return
		}
		level := cfg.Logging.Level
		if c.levelFlag != nil && strings.TrimSpace(*c.levelFlag) != "" {
			level = strings.TrimSpace(*c.levelFlag)
		}
		format := cfg.Logging.Format
		if c.formatFlag != nil && strings.TrimSpace(*c.formatFlag) != "" {
			format = strings.TrimSpace(*c.formatFlag)
		}
		c.log, c.logErr = logging.New(logging.Options{
			Level:       level,
			Format:      format,
			OutputPaths: []string{"stderr"},
		})
	})
	return c.log, c.logErr
}

// acquireWorkLock guards commands that write into the shared work and output
// directories. The caller must release the returned function.
func (c *commandContext) acquireWorkLock() (func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.lock == nil {
		c.lock = flock.New(filepath.Join(cfg.Paths.WorkDir, "mediaforge.lock"))
	}
	ok, err := c.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another mediaforge process is using %s", cfg.Paths.WorkDir)
	}
	return func() { _ = c.lock.Unlock() }, nil
}

func (c *commandContext) audioService() (*audio.Service, error) {
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	return audio.NewService(nil, log), nil
}

func (c *commandContext) videoService() (*video.Service, error) {
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	return video.NewService(nil, log), nil
}

func (c *commandContext) inspector() (*ffprobe.Inspector, error) {
	if _, err := c.ensureConfig(); err != nil {
		return nil, err
	}
	return ffprobe.NewInspector(ffmpeg.NewRunner("ffprobe")), nil
}

func (c *commandContext) transcribeService() (*transcribe.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	return transcribe.NewService(transcribe.Config{
		Binary: cfg.Transcribe.Binary,
		Model:  cfg.Transcribe.Model,
		Device: cfg.Transcribe.Device,
	}, nil, log), nil
}

func (c *commandContext) translateChain() (*translate.Chain, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	return translate.NewDefaultChain(translate.Settings{
		Groq:       translate.ChatSettings{APIKey: cfg.Translate.GroqAPIKey},
		Gemini:     translate.GeminiSettings{APIKey: cfg.Translate.GeminiAPIKey},
		DeepL:      translate.DeepLSettings{APIKey: cfg.Translate.DeepLAPIKey},
		OpenRouter: translate.ChatSettings{APIKey: cfg.Translate.OpenRouterAPIKey},
		OpenAI:     translate.ChatSettings{APIKey: cfg.Translate.OpenAIAPIKey},
		Offline:    translate.OfflineSettings{Binary: cfg.Translate.OfflineBinary},
	}, log), nil
}

func (c *commandContext) ttsManager() (*tts.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	registry := tts.NewDefaultRegistry(tts.Settings{
		Edge: tts.EdgeSettings{
			DefaultVoice: cfg.TTS.EdgeVoice,
			WorkDir:      cfg.Paths.WorkDir,
		},
		Voicevox: tts.VoicevoxSettings{
			BaseURL:        cfg.TTS.VoicevoxURL,
			DefaultSpeaker: cfg.TTS.VoicevoxSpeaker,
		},
		Google: tts.GoogleSettings{APIKey: cfg.TTS.GoogleAPIKey},
		System: tts.SystemSettings{WorkDir: cfg.Paths.WorkDir},
	})
	return tts.NewManager(registry, cfg.Paths.OutputDir, log), nil
}

func (c *commandContext) pipeline() (*dubbing.Pipeline, error) {
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	extractor, err := c.audioService()
	if err != nil {
		return nil, err
	}
	transcriber, err := c.transcribeService()
	if err != nil {
		return nil, err
	}
	translator, err := c.translateChain()
	if err != nil {
		return nil, err
	}
	synthesizer, err := c.ttsManager()
	if err != nil {
		return nil, err
	}
	return dubbing.NewPipeline(dubbing.Services{
		Extractor:   extractor,
		Transcriber: transcriber,
		Translator:  translator,
		Synthesizer: synthesizer,
	}, nil, log), nil
}

func (c *commandContext) downloadManager() (*download.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log, err := c.logger()
	if err != nil {
		return nil, err
	}
	extractor, err := c.audioService()
	if err != nil {
		return nil, err
	}
	return download.NewManager(download.Settings{
		Binary:        cfg.Download.Binary,
		MaxConcurrent: cfg.Download.MaxConcurrent,
		OutputDir:     cfg.Paths.DownloadDir,
		Extractor:     extractor,
		Logger:        log,
	}), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
