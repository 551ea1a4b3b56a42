package core

// RuntimeConfig holds the start-up settings of one terminal surface: the
// initial screen size, the tick rate and the engine seed.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Ticks per second
	Seed     int64 // 0 seeds from the clock
}

// DefaultConfig returns the settings for a standard 80x24 terminal at 60 Hz.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
