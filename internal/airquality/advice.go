package airquality

// Weather modifier thresholds for the general advisory text.
const (
	windDispersalThresholdMS = 5.0
	rainClearingThresholdMM  = 2.0
)

// Modifier sentences appended to the general advisory.
const (
	windDispersalNote = " Strong winds may help disperse pollutants."
	rainClearingNote  = " Rain is helping to clear the air."
)

// adviceBand holds the guidance for one AQI band.
type adviceBand struct {
	maxAQI   int
	general  string
	profiles map[Profile]string
}

// adviceBands is ordered by severity; the last band has no upper bound.
var adviceBands = []adviceBand{
	{
		maxAQI:  50,
		general: "Air quality is good. Perfect day for outdoor activities.",
		profiles: map[Profile]string{
			ProfileChildren: "Great day for outdoor play and sports.",
			ProfileAsthma:   "Normal outdoor activities are fine.",
			ProfileElderly:  "Enjoy outdoor activities as usual.",
			ProfileAthletes: "Excellent conditions for training and competition.",
		},
	},
	{
		maxAQI:  100,
		general: "Air quality is moderate. Sensitive individuals may experience minor symptoms.",
		profiles: map[Profile]string{
			ProfileChildren: "Outdoor activities are generally safe, but watch for any symptoms.",
			ProfileAsthma:   "Consider carrying your rescue inhaler during outdoor activities.",
			ProfileElderly:  "Take breaks during prolonged outdoor activities.",
			ProfileAthletes: "You may experience slight decrease in performance during intense workouts.",
		},
	},
	{
		maxAQI:  150,
		general: "Sensitive groups should limit prolonged outdoor exertion.",
		profiles: map[Profile]string{
			ProfileChildren: "Limit intense outdoor activities. Choose indoor alternatives when possible.",
			ProfileAsthma:   "Avoid prolonged outdoor exertion. Have your inhaler readily available.",
			ProfileElderly:  "Reduce time spent outdoors, especially during midday hours.",
			ProfileAthletes: "Consider indoor training. If outdoors, reduce intensity and duration.",
		},
	},
	{
		maxAQI:  200,
		general: "Everyone should limit prolonged outdoor exertion.",
		profiles: map[Profile]string{
			ProfileChildren: "Avoid outdoor activities. Choose indoor play and exercise.",
			ProfileAsthma:   "Stay indoors as much as possible. Have emergency medications available.",
			ProfileElderly:  "Minimize outdoor exposure. Consider staying indoors with air filtration.",
			ProfileAthletes: "Move workouts indoors. Avoid outdoor training.",
		},
	},
	{
		maxAQI:  300,
		general: "Everyone should avoid all outdoor exertion.",
		profiles: map[Profile]string{
			ProfileChildren: "Stay indoors. Keep windows closed and use air purifiers if available.",
			ProfileAsthma:   "Stay indoors with windows and doors closed. Avoid all outdoor activities.",
			ProfileElderly:  "Remain indoors. Consider using air purifiers and avoiding physical exertion.",
			ProfileAthletes: "Cancel outdoor training. Even indoor activities should be light.",
		},
	},
	{
		maxAQI:  0, // no upper bound
		general: "Health warning: everyone should stay indoors and avoid all outdoor activities.",
		profiles: map[Profile]string{
			ProfileChildren: "Emergency conditions: keep children indoors with air filtration if possible.",
			ProfileAsthma:   "Emergency: stay indoors, have medications ready, seek medical attention if symptoms worsen.",
			ProfileElderly:  "Emergency: stay indoors, minimize physical activity, seek medical care if needed.",
			ProfileAthletes: "Emergency: cancel all activities. Even light indoor exercise should be avoided.",
		},
	},
}

// Advise maps an AQI value and the current weather to health guidance. The
// band texts grow progressively more restrictive; wind and rain modifiers
// apply to the general statement only and may stack.
func Advise(aqi int, weather WeatherObservation) HealthAdvice {
	band := adviceBands[len(adviceBands)-1]
	for _, b := range adviceBands[:len(adviceBands)-1] {
		if aqi <= b.maxAQI {
			band = b
			break
		}
	}

	general := band.general
	if weather.WindSpeedMS > windDispersalThresholdMS {
		general += windDispersalNote
	}
	if weather.PrecipMM > rainClearingThresholdMM {
		general += rainClearingNote
	}

	profiles := make(map[Profile]string, len(band.profiles))
	for profile, text := range band.profiles {
		profiles[profile] = text
	}

	return HealthAdvice{General: general, Profiles: profiles}
}
