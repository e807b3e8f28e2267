package contentstack

// demoEntries is the built-in dataset served when delivery credentials are
// absent. It mirrors the travel content a real stack would hold so the
// augmentation path behaves identically in demo deployments.
var demoEntries = []Entry{
	{
		ID:          "italy_travel_guide",
		Title:       "Italy Travel Guide",
		ContentType: "travel_guide",
		Content: "Italy offers incredible experiences from ancient Rome to " +
			"romantic Venice. Top attractions include the Colosseum, Vatican " +
			"Museums, and the canals of Venice. Best visited April through " +
			"June or September through October.",
		URL: "/guides/italy",
	},
	{
		ID:          "rome_historical_tours",
		Title:       "Rome Historical Tours",
		ContentType: "tour_package",
		Content: "Walk through two thousand years of history with guided " +
			"tours of the Colosseum, Roman Forum, and Pantheon. Skip-the-line " +
			"tickets and expert archaeologist guides available daily.",
		URL: "/tours/rome-historical",
	},
	{
		ID:          "venice_cultural_experience",
		Title:       "Venice Cultural Experience",
		ContentType: "tour_package",
		Content: "Glide along the Grand Canal in a traditional gondola, " +
			"visit St. Mark's Basilica, and watch master glassblowers on " +
			"Murano island. Evening tours include a classical concert.",
		URL: "/tours/venice-cultural",
	},
	{
		ID:          "florence_art_destination",
		Title:       "Florence Art and Architecture",
		ContentType: "destination",
		Content: "Florence is the cradle of the Renaissance. See " +
			"Michelangelo's David, climb Brunelleschi's Duomo, and cross the " +
			"Ponte Vecchio at sunset. Uffizi Gallery reservations recommended.",
		URL: "/destinations/florence",
	},
}

// mockEntries returns the demo entries belonging to the requested content
// types.
func mockEntries(contentTypes []string) []Entry {
	wanted := make(map[string]bool, len(contentTypes))
	for _, ct := range contentTypes {
		wanted[ct] = true
	}
	var out []Entry
	for _, e := range demoEntries {
		if wanted[e.ContentType] {
			out = append(out, e)
		}
	}
	return out
}
