package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// StrategyConfig holds the lookback windows and thresholds of the signal
// library. Every field is overridable from YAML.
type StrategyConfig struct {
	FastMA          int     `yaml:"fast_ma"`          // default 9
	SlowMA          int     `yaml:"slow_ma"`          // default 21
	RSIPeriod       int     `yaml:"rsi_period"`       // default 14
	RSIOversold     float64 `yaml:"rsi_oversold"`     // default 30
	RSIOverbought   float64 `yaml:"rsi_overbought"`   // default 70
	MACDFast        int     `yaml:"macd_fast"`        // default 12
	MACDSlow        int     `yaml:"macd_slow"`        // default 26
	MACDSignal      int     `yaml:"macd_signal"`      // default 9
	BollingerPeriod int     `yaml:"bollinger_period"` // default 20
	BollingerMult   float64 `yaml:"bollinger_mult"`   // default 2
	BreakoutPeriod  int     `yaml:"breakout_period"`  // default 20
	RangePeriod     int     `yaml:"range_period"`     // default 20
	RangeQty        float64 `yaml:"range_qty"`        // default 3.5
	HMAPeriod       int     `yaml:"hma_period"`       // default 9
}

// PaperConfig tunes the in-process feed and broker used when no live
// terminal is attached.
type PaperConfig struct {
	StartingPrice float64 `yaml:"starting_price"`
	Volatility    float64 `yaml:"volatility"` // per-bar stddev as a fraction of price
	ContractSize  float64 `yaml:"contract_size"`
	Seed          int64   `yaml:"seed"`
}

// Config is the immutable run configuration handed to the engine and the
// position controller.
type Config struct {
	Symbols          []string      `yaml:"symbols"`
	Timeframe        string        `yaml:"timeframe"`
	BarCount         int           `yaml:"bar_count"`
	LotSize          float64       `yaml:"lot_size"`
	LotStep          float64       `yaml:"lot_step"`
	MinLot           float64       `yaml:"min_lot"`
	MaxOpenPerSymbol int           `yaml:"max_open_per_symbol"`
	ProfitClose      float64       `yaml:"profit_close"`
	Interval         time.Duration `yaml:"interval"`
	MetricsAddr      string        `yaml:"metrics_addr"`
	LogLevel         string        `yaml:"log_level"`
	// Observe lists library strategies evaluated for logging only.
	Observe  []string       `yaml:"observe"`
	Strategy StrategyConfig `yaml:"strategy"`
	Paper    PaperConfig    `yaml:"paper"`
}

// DefaultStrategy returns the stock indicator parameters.
func DefaultStrategy() StrategyConfig {
	return StrategyConfig{
		FastMA:          9,
		SlowMA:          21,
		RSIPeriod:       14,
		RSIOversold:     30,
		RSIOverbought:   70,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerMult:   2,
		BreakoutPeriod:  20,
		RangePeriod:     20,
		RangeQty:        3.5,
		HMAPeriod:       9,
	}
}

// Default returns a configuration that passes Validate.
func Default() Config {
	return Config{
		Symbols:          []string{"EURUSDm", "XAUUSDm"},
		Timeframe:        "M1",
		BarCount:         100,
		LotSize:          0.1,
		LotStep:          0.01,
		MinLot:           0.01,
		MaxOpenPerSymbol: 2,
		ProfitClose:      10,
		Interval:         60 * time.Second,
		MetricsAddr:      ":9102",
		LogLevel:         "info",
		Strategy:         DefaultStrategy(),
		Paper: PaperConfig{
			StartingPrice: 1.1,
			Volatility:    0.0005,
			ContractSize:  100_000,
			Seed:          1,
		},
	}
}

// Load decodes a YAML file over Default, so omitted keys keep their
// defaults, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var err error
	if len(c.Symbols) == 0 {
		err = multierr.Append(err, errors.New("symbols must not be empty"))
	}
	for i, s := range c.Symbols {
		if s == "" {
			err = multierr.Append(err, fmt.Errorf("symbols[%d] is empty", i))
		}
	}
	if c.Timeframe == "" {
		err = multierr.Append(err, errors.New("timeframe must be set"))
	}
	if c.BarCount <= 0 {
		err = multierr.Append(err, fmt.Errorf("bar_count (%d) must be positive", c.BarCount))
	}
	if c.LotSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("lot_size (%f) must be positive", c.LotSize))
	}
	if c.LotStep < 0 || c.MinLot < 0 {
		err = multierr.Append(err, errors.New("lot_step and min_lot cannot be negative"))
	}
	if c.MaxOpenPerSymbol <= 0 {
		err = multierr.Append(err, fmt.Errorf("max_open_per_symbol (%d) must be positive", c.MaxOpenPerSymbol))
	}
	if c.Interval <= 0 {
		err = multierr.Append(err, fmt.Errorf("interval (%s) must be positive", c.Interval))
	}
	return multierr.Append(err, c.Strategy.Validate())
}

// Validate checks window sizes and threshold ordering.
func (s StrategyConfig) Validate() error {
	var err error
	windows := []struct {
		name string
		v    int
	}{
		{"fast_ma", s.FastMA},
		{"slow_ma", s.SlowMA},
		{"rsi_period", s.RSIPeriod},
		{"macd_fast", s.MACDFast},
		{"macd_slow", s.MACDSlow},
		{"macd_signal", s.MACDSignal},
		{"bollinger_period", s.BollingerPeriod},
		{"breakout_period", s.BreakoutPeriod},
		{"range_period", s.RangePeriod},
		{"hma_period", s.HMAPeriod},
	}
	for _, w := range windows {
		if w.v <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s (%d) must be positive", w.name, w.v))
		}
	}
	if s.BollingerPeriod == 1 {
		err = multierr.Append(err, errors.New("bollinger_period must be at least 2"))
	}
	if s.FastMA >= s.SlowMA {
		err = multierr.Append(err, fmt.Errorf("fast_ma (%d) must be below slow_ma (%d)", s.FastMA, s.SlowMA))
	}
	if s.MACDFast >= s.MACDSlow {
		err = multierr.Append(err, fmt.Errorf("macd_fast (%d) must be below macd_slow (%d)", s.MACDFast, s.MACDSlow))
	}
	if s.RSIOversold >= s.RSIOverbought {
		err = multierr.Append(err, errors.New("rsi_oversold must be below rsi_overbought"))
	}
	if s.BollingerMult <= 0 {
		err = multierr.Append(err, fmt.Errorf("bollinger_mult (%f) must be positive", s.BollingerMult))
	}
	if s.RangeQty <= 0 {
		err = multierr.Append(err, fmt.Errorf("range_qty (%f) must be positive", s.RangeQty))
	}
	return err
}

// DecisionBars is the shortest window on which every strategy of the
// combined decision (RSI, Bollinger, range filter) can produce a signal.
func (s StrategyConfig) DecisionBars() int {
	return max(s.RSIPeriod, s.BollingerPeriod, s.RangePeriod)
}
