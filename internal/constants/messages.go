package constants

// Preset is a named quick-add value.
type Preset struct {
	Label string
	Value float64
}

var (
	WaterReminderTitle   = "Water Reminder"
	WalkingReminderTitle = "Walking Reminder"

	WaterFallbackMessage   = "Time to drink water!"
	WalkingFallbackMessage = "Time to take a walk!"

	WaterReminderMessages = []string{
		"💧 Time to hydrate! Your body needs water to stay healthy.",
		"🌊 Don't forget to drink water! Stay refreshed and focused.",
		"💦 Water break! Keep your energy levels up.",
		"🚰 Hydration reminder: A glass of water keeps you going!",
		"💧 Your body is calling for water! Time for a healthy sip.",
	}

	WalkingReminderMessages = []string{
		"🚶 Time to move! Take a short walk to boost your energy.",
		"🏃 Walking break! Your body needs movement.",
		"🌿 Get up and stretch! A little movement goes a long way.",
		"🚶 Step away from your desk! Time for a healthy walk.",
		"🏃 Movement matters! Take a few minutes to walk around.",
	}

	// WaterPresets are amounts in milliliters.
	WaterPresets = []Preset{
		{Label: "Small Cup", Value: 125},
		{Label: "Regular Cup", Value: 250},
		{Label: "Bottle", Value: 500},
		{Label: "Large Bottle", Value: 750},
		{Label: "1 Liter", Value: 1000},
	}

	// WalkPresets are durations in seconds.
	WalkPresets = []Preset{
		{Label: "Quick Walk", Value: 300},
		{Label: "Short Walk", Value: 600},
		{Label: "Nice Walk", Value: 900},
		{Label: "Good Walk", Value: 1200},
		{Label: "Long Walk", Value: 1800},
	}
)
