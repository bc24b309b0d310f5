package prompts

// Pool is a set of prompt texts that share one point value.
type Pool struct {
	Points int
	Texts  []string
}

// DefaultPools returns the three tiers drawn from each day, in order.
func DefaultPools() []Pool {
	return []Pool{
		{Points: 1, Texts: []string{
			"Sketch the view from your window in under five minutes",
			"Write a haiku about your breakfast",
			"Take a photo of something blue",
			"Describe today's weather as if it were a person",
			"Doodle your current mood",
			"Write down three words you heard today",
		}},
		{Points: 2, Texts: []string{
			"Write a short poem about a forgotten object",
			"Photograph a shadow that looks like something else",
			"Draw a map of a place from your childhood",
			"Write a six-sentence story that ends with a question",
			"Redesign the label of something in your kitchen",
			"Record a one-minute melody with whatever is at hand",
		}},
		{Points: 3, Texts: []string{
			"Write a one-page letter to yourself ten years from now",
			"Paint a scene using only three colours",
			"Build a small sculpture from recycled materials",
			"Write a short story where the villain is right",
			"Create a comic strip of four panels about your week",
			"Compose a short song and write its lyrics",
		}},
	}
}
