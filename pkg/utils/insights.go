package utils

import "strings"

// InsightSeparator joins advisories into the text shown on the vehicle step.
const InsightSeparator = "\n• "

const maxInsights = 3

var generalInsights = []string{
	"Carry your ID proof as it might be required for hotel check-ins or pilgrimage sites.",
	"Inform the driver in advance if you plan to visit Baidyanath Temple for specific timing.",
	"For outstation trips to Ranchi or Dhanbad, we recommend leaving early to avoid city traffic.",
}

const (
	largeGroupInsight = "Since you're a large group, our Force Traveller is already being prepared with extra luggage space."
	smallGroupInsight = "Our compact sedans are perfectly sanitized and ideal for Giridih's city maneuvers."
	ranchiInsight     = "Allow at least 4-5 hours for the Giridih-Ranchi journey depending on current road conditions."
	pilgrimageInsight = "Pilgrimage special: Our drivers are familiar with the best darshan timings and routes."

	largeGroupThreshold = 7
)

type routeInsight struct {
	keywords []string
	text     string
}

var routeInsights = []routeInsight{
	{keywords: []string{"ranchi", "airport"}, text: ranchiInsight},
	{keywords: []string{"deoghar", "temple"}, text: pilgrimageInsight},
}

// GenerateInsights picks up to three travel advisories for a trip. Trip
// specific remarks come first so they survive the cut; the general pool fills
// the rest. Same input always gives the same output.
func GenerateInsights(pickup, drop string, passengers int) string {
	picked := make([]string, 0, maxInsights+len(routeInsights)+1)

	if passengers > largeGroupThreshold {
		picked = append(picked, largeGroupInsight)
	} else {
		picked = append(picked, smallGroupInsight)
	}

	route := strings.ToLower(pickup + drop)
	for _, r := range routeInsights {
		for _, kw := range r.keywords {
			if strings.Contains(route, kw) {
				picked = append(picked, r.text)
				break
			}
		}
	}

	picked = append(picked, generalInsights...)
	if len(picked) > maxInsights {
		picked = picked[:maxInsights]
	}
	return strings.Join(picked, InsightSeparator)
}

// SplitInsights undoes GenerateInsights' joining.
func SplitInsights(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, InsightSeparator)
}
