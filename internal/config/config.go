// Package config loads the trainer's HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/holdem-trainer/internal/game"
)

// Config is the complete trainer configuration
type Config struct {
	Game    *GameConfig    `hcl:"game,block"`
	Tutor   *TutorConfig   `hcl:"tutor,block"`
	LLM     *LLMConfig     `hcl:"llm,block"`
	Profile *ProfileConfig `hcl:"profile,block"`
	Logging *LoggingConfig `hcl:"logging,block"`
}

// GameConfig sets up the table
type GameConfig struct {
	Bots        int    `hcl:"bots,optional"`
	SmallBlind  int    `hcl:"small_blind,optional"`
	BigBlind    int    `hcl:"big_blind,optional"`
	Difficulty  string `hcl:"difficulty,optional"`
	BotChips    int    `hcl:"bot_chips,optional"`
	MinChips    int    `hcl:"min_chips,optional"`
	TurnTimeout string `hcl:"turn_timeout,optional"`
	BotDelay    string `hcl:"bot_delay,optional"`
	Seed        int64  `hcl:"seed,optional"`
}

// TutorConfig controls the quiz
type TutorConfig struct {
	Enabled   *bool   `hcl:"enabled,optional"`
	Tolerance float64 `hcl:"tolerance,optional"`
}

// LLMConfig controls the optional language model collaborators
type LLMConfig struct {
	Enabled     *bool  `hcl:"enabled,optional"`
	BotAdvisor  *bool  `hcl:"bot_advisor,optional"`
	BaseURL     string `hcl:"base_url,optional"`
	GraderModel string `hcl:"grader_model,optional"`
	APIKeyEnv   string `hcl:"api_key_env,optional"`
}

// ProfileConfig locates the saved player profile
type ProfileConfig struct {
	Path          string `hcl:"path,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	StoreChips    int    `hcl:"store_chips,optional"`
}

// LoggingConfig sets the log destination
type LoggingConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename, returning defaults when it does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse decodes configuration source held in memory.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var c Config
	if diags := gohcl.DecodeBody(file.Body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameConfig{}
	}
	if c.Tutor == nil {
		c.Tutor = &TutorConfig{}
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.Profile == nil {
		c.Profile = &ProfileConfig{}
	}
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}

	g := c.Game
	if g.Bots == 0 {
		g.Bots = 3
	}
	if g.SmallBlind == 0 {
		g.SmallBlind = 10
	}
	if g.BigBlind == 0 {
		g.BigBlind = g.SmallBlind * 2
	}
	if g.Difficulty == "" {
		g.Difficulty = "medium"
	}
	if g.BotChips == 0 {
		g.BotChips = 1000
	}
	if g.MinChips == 0 {
		g.MinChips = g.BigBlind
	}
	if g.TurnTimeout == "" {
		g.TurnTimeout = "10s"
	}
	if g.BotDelay == "" {
		g.BotDelay = "1s"
	}

	if c.Tutor.Enabled == nil {
		c.Tutor.Enabled = ptr(true)
	}
	if c.Tutor.Tolerance == 0 {
		c.Tutor.Tolerance = 1.0
	}

	if c.LLM.Enabled == nil {
		c.LLM.Enabled = ptr(true)
	}
	if c.LLM.BotAdvisor == nil {
		c.LLM.BotAdvisor = ptr(false)
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = "ANTHROPIC_API_KEY"
	}

	if c.Profile.Path == "" {
		c.Profile.Path = "player_data.json"
	}
	if c.Profile.StartingChips == 0 {
		c.Profile.StartingChips = 1000
	}
	if c.Profile.StoreChips == 0 {
		c.Profile.StoreChips = 500
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "holdem.log"
	}
}

func ptr[T any](v T) *T { return &v }

// Validate checks the configuration for values the game cannot run with.
func (c *Config) Validate() error {
	g := c.Game
	if g.Bots < 1 || g.Bots > game.MaxSeats-1 {
		return fmt.Errorf("game: bots must be between 1 and %d", game.MaxSeats-1)
	}
	if err := (game.Config{SmallBlind: g.SmallBlind, BigBlind: g.BigBlind}).Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := game.ParseDifficulty(g.Difficulty); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if g.BotChips <= 0 {
		return fmt.Errorf("game: bot_chips must be positive")
	}
	for name, v := range map[string]string{"turn_timeout": g.TurnTimeout, "bot_delay": g.BotDelay} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("game: %s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("game: %s must not be negative", name)
		}
	}

	if c.Tutor.Tolerance < 0 {
		return fmt.Errorf("tutor: tolerance must not be negative")
	}
	if c.Profile.StartingChips <= 0 || c.Profile.StoreChips <= 0 {
		return fmt.Errorf("profile: chip amounts must be positive")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// ParsedDifficulty returns the bot difficulty, medium if unparseable.
func (g *GameConfig) ParsedDifficulty() game.Difficulty {
	d, err := game.ParseDifficulty(g.Difficulty)
	if err != nil {
		return game.Medium
	}
	return d
}

// TurnLimit is how long the hero has to act. Zero disables the timer.
func (g *GameConfig) TurnLimit() time.Duration {
	d, _ := time.ParseDuration(g.TurnTimeout)
	return d
}

// ThinkDelay is the pause before a bot acts in the interactive game.
func (g *GameConfig) ThinkDelay() time.Duration {
	d, _ := time.ParseDuration(g.BotDelay)
	return d
}

// QuizEnabled reports whether the tutor asks questions.
func (c *Config) QuizEnabled() bool {
	return c.Tutor.Enabled != nil && *c.Tutor.Enabled
}

// LLMEnabled reports whether language model grading is wanted.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Enabled != nil && *c.LLM.Enabled
}

// AdvisorEnabled reports whether bots may ask the language model.
func (c *Config) AdvisorEnabled() bool {
	return c.LLMEnabled() && c.LLM.BotAdvisor != nil && *c.LLM.BotAdvisor
}

// LoadDotEnv loads variables from a .env file if one exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// APIKey returns the language model key from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}
