package quiz

func opts(texts [5]string, deltas [5]Vector) []Option {
	out := make([]Option, len(texts))
	for i := range texts {
		out[i] = Option{Value: i + 1, Text: texts[i], Delta: deltas[i]}
	}
	return out
}

var baseQuestions = []Question{ //nolint:gochecknoglobals // static catalog
	{
		ID: 1, Text: "Your ideal weekend date?", Focus: NoFocus,
		Options: opts(
			[5]string{"A slow day at home together", "Cafes and a walk nearby", "A trendy new spot", "A planned day trip", "Each of us enjoying our own hobbies"},
			[5]Vector{Vec(-2, 0, 2, 0), Vec(-1, 0, 1, 0), Vec(0, 1, 0, 0), Vec(1, 1, 0, 0), Vec(2, -1, 0, 0)},
		),
	},
	{
		ID: 2, Text: "How often do you like to keep in touch?", Focus: NoFocus,
		Options: opts(
			[5]string{"Messages all day long", "A few times a day", "Good morning and good night", "Only when there is something to say", "Hardly at all is fine"},
			[5]Vector{Vec(-2, 0, 0, 1), Vec(-1, 0, 1, 0), Vec(0, 0, 1, 0), Vec(1, -1, 0, 0), Vec(2, -1, 0, 0)},
		),
	},
	{
		ID: 3, Text: "Your partner is feeling down. What do you do?", Focus: NoFocus,
		Options: opts(
			[5]string{"Meet right away and listen", "Call and stay with them", "Take them out for a good meal", "Cheer them on but keep some space", "Leave them be and watch over them"},
			[5]Vector{Vec(0, 0, 2, 1), Vec(0, 0, 1, 1), Vec(0, 1, 0, 1), Vec(1, 0, -1, 0), Vec(2, 0, -1, 0)},
		),
	},
	{
		ID: 4, Text: "How do you pick an anniversary gift?", Focus: NoFocus,
		Options: opts(
			[5]string{"Plan a big surprise", "A small surprise after some research", "Go shopping together", "Ask each other for requests", "No rules, each as we like"},
			[5]Vector{Vec(0, 2, 0, 2), Vec(0, 1, 0, 1), Vec(-1, 0, 1, 0), Vec(0, -1, 2, 0), Vec(1, -1, 0, 0)},
		),
	},
	{
		ID: 5, Text: "After an argument?", Focus: NoFocus,
		Options: opts(
			[5]string{"Apologise and make up at once", "Apologise after a little while", "Talk it through calmly", "Keep some distance to sort things out", "Let it go without talking"},
			[5]Vector{Vec(0, -1, 2, 0), Vec(0, 0, 1, 0), Vec(0, 1, 0, 0), Vec(1, 1, 0, 0), Vec(2, 0, -1, 0)},
		),
	},
	{
		ID: 6, Text: "How do you show affection?", Focus: NoFocus,
		Options: opts(
			[5]string{"Often, in words", "Balanced words and actions", "More actions than words", "Now and then, a little shyly", "Very reserved"},
			[5]Vector{Vec(0, 1, 0, 2), Vec(0, 0, 0, 1), Vec(0, -1, 0, 1), Vec(0, 0, 0, 0), Vec(1, 0, 0, -1)},
		),
	},
	{
		ID: 7, Text: "You cannot decide where to go on a date?", Focus: NoFocus,
		Options: opts(
			[5]string{"I decide", "I suggest a few ideas", "We decide together", "I pick from their ideas", "I leave it to them"},
			[5]Vector{Vec(0, 2, 0, 0), Vec(0, 1, 0, 0), Vec(0, 0, 0, 0), Vec(0, -1, 0, 0), Vec(0, -2, 0, 0)},
		),
	},
	{
		ID: 8, Text: "Do you get jealous?", Focus: NoFocus,
		Options: opts(
			[5]string{"Very", "A little", "Depends on the situation", "Rarely", "Never"},
			[5]Vector{Vec(-2, 0, -2, 0), Vec(-1, 0, -1, 0), Vec(0, 0, 0, 0), Vec(1, 0, 1, 0), Vec(2, 0, 2, 0)},
		),
	},
	{
		ID: 9, Text: "When do you want to talk about the future?", Focus: NoFocus,
		Options: opts(
			[5]string{"Early and seriously", "Within a few months", "After about a year", "Much later", "Let it happen naturally"},
			[5]Vector{Vec(-2, 0, 1, 0), Vec(-1, 0, 1, 0), Vec(0, 0, 0, 0), Vec(1, -1, 0, 0), Vec(2, -1, 0, 0)},
		),
	},
	{
		ID: 10, Text: "Your ideal relationship?", Focus: NoFocus,
		Options: opts(
			[5]string{"Equals, like best friends", "Leaning on each other", "Spoiling and being spoiled", "Inspiring each other", "Independent but supportive"},
			[5]Vector{Vec(0, 0, 0, 0), Vec(-1, 0, 0, 1), Vec(-2, 0, 0, 2), Vec(1, 1, 0, 0), Vec(2, 1, 0, 0)},
		),
	},
}

var followupPool = []Question{ //nolint:gochecknoglobals // static catalog
	{
		ID: 201, Text: "How do you want to plan a trip?", Focus: Initiative,
		Options: opts(
			[5]string{"I lead the planning", "I lead but consult", "Half and half", "Adjust their plan", "Leave it to them"},
			[5]Vector{Vec(0, 2, 0, 0), Vec(0, 1, 0, 0), Vec(0, 0, 0, 0), Vec(0, -1, 0, 0), Vec(0, -2, 0, 0)},
		),
	},
	{
		ID: 202, Text: "If someone surprised you?", Focus: Security,
		Options: opts(
			[5]string{"Love it", "Happy, but keep it modest", "Depends on the surprise", "Not really my thing", "I dislike surprises"},
			[5]Vector{Vec(0, 0, 2, 1), Vec(0, 0, 1, 0), Vec(0, 0, 0, 0), Vec(0, 0, -1, 0), Vec(0, 0, -2, 0)},
		),
	},
	{
		ID: 203, Text: "Keeping in touch during busy weeks?", Focus: Distance,
		Options: opts(
			[5]string{"Same as always", "A bit less", "Bare minimum", "Hardly needed", "No contact is fine"},
			[5]Vector{Vec(-2, 0, 0, 1), Vec(-1, 0, 0, 0), Vec(0, 0, 0, 0), Vec(1, 0, 0, 0), Vec(2, 0, 0, 0)},
		),
	},
	{
		ID: 204, Text: "How do you spend an anniversary?", Focus: Affection,
		Options: opts(
			[5]string{"Celebrate big", "Something a little special", "A bit more care than usual", "Keep it simple", "Not a special day"},
			[5]Vector{Vec(0, 1, 0, 2), Vec(0, 0, 0, 1), Vec(0, 0, 0, 0), Vec(0, 0, 0, -1), Vec(0, 0, 0, -2)},
		),
	},
	{
		ID: 205, Text: "How should date costs be split?", Focus: Initiative,
		Options: opts(
			[5]string{"I pay more", "I pay a bit more", "Split evenly", "They pay a bit more", "Leave it to them"},
			[5]Vector{Vec(0, 2, 0, 0), Vec(0, 1, 0, 0), Vec(0, 0, 0, 0), Vec(0, -1, 0, 0), Vec(0, -2, 0, 0)},
		),
	},
	{
		ID: 206, Text: "Time for hobbies as a couple?", Focus: Distance,
		Options: opts(
			[5]string{"Almost always together", "Most of the week together", "About half", "More time apart", "Mostly separate"},
			[5]Vector{Vec(-2, 0, 0, 1), Vec(-1, 0, 0, 0), Vec(0, 0, 0, 0), Vec(1, 0, 0, 0), Vec(2, 0, 0, 0)},
		),
	},
	{
		ID: 207, Text: "How do you handle worries?", Focus: Security,
		Options: opts(
			[5]string{"Share at once and think together", "Share early", "Talk when the time is right", "Mostly handle it myself", "Rarely share"},
			[5]Vector{Vec(0, 0, 2, 0), Vec(0, 0, 1, 0), Vec(0, 0, 0, 0), Vec(0, 0, -1, 0), Vec(0, 0, -2, 0)},
		),
	},
	{
		ID: 208, Text: "How much physical closeness?", Focus: Affection,
		Options: opts(
			[5]string{"Lots, every day", "A little every day", "A few times a week", "Now and then", "Hardly any"},
			[5]Vector{Vec(-1, 0, 0, 2), Vec(0, 0, 0, 1), Vec(0, 0, 0, 0), Vec(1, 0, 0, -1), Vec(2, 0, 0, -2)},
		),
	},
	{
		ID: 209, Text: "How involved with their friends?", Focus: Distance,
		Options: opts(
			[5]string{"Spend time with them actively", "Happy to be introduced", "Show up when needed", "Rarely involved", "Not involved at all"},
			[5]Vector{Vec(-2, 0, 0, 0), Vec(-1, 0, 0, 0), Vec(0, 0, 0, 0), Vec(1, 0, 0, 0), Vec(2, 0, 0, 0)},
		),
	},
	{
		ID: 210, Text: "How often do you want to meet?", Focus: Security,
		Options: opts(
			[5]string{"Every week", "Every two weeks", "About once a month", "Every other month if busy", "Frequency does not matter"},
			[5]Vector{Vec(0, 0, 2, 1), Vec(0, 0, 1, 0), Vec(0, 0, 0, 0), Vec(0, 0, -1, 0), Vec(0, 0, -2, 0)},
		),
	},
	{
		ID: 211, Text: "When would you consider living together?", Focus: Security,
		Options: opts(
			[5]string{"Early on", "Within a year", "After a few years", "Separate for a while", "Not thinking about it"},
			[5]Vector{Vec(0, 0, 2, 0), Vec(0, 0, 1, 0), Vec(0, 0, 0, 0), Vec(0, 0, -1, 0), Vec(0, 0, -2, 0)},
		),
	},
	{
		ID: 212, Text: "If you planned a surprise?", Focus: Initiative,
		Options: opts(
			[5]string{"A big production", "A small thoughtful touch", "Something modest", "Usually I would not", "Surprises are not for me"},
			[5]Vector{Vec(0, 2, 0, 1), Vec(0, 1, 0, 0), Vec(0, 0, 0, 0), Vec(0, -1, 0, 0), Vec(0, -2, 0, 0)},
		),
	},
	{
		ID: 213, Text: "How much do you share troubles?", Focus: Security,
		Options: opts(
			[5]string{"Everything, even small things", "The important things", "As needed", "Only heavy topics", "Almost nothing"},
			[5]Vector{Vec(0, 0, 2, 0), Vec(0, 0, 1, 0), Vec(0, 0, 0, 0), Vec(0, 0, -1, 0), Vec(0, 0, -2, 0)},
		),
	},
	{
		ID: 214, Text: "What matters when choosing a gift?", Focus: Affection,
		Options: opts(
			[5]string{"Romance", "Memories", "Practical balance", "Value for money", "I do not mind"},
			[5]Vector{Vec(0, 0, 0, 2), Vec(0, 0, 0, 1), Vec(0, 0, 0, 0), Vec(0, 0, 0, -1), Vec(0, 0, 0, -2)},
		),
	},
	{
		ID: 215, Text: "Words you want on an anniversary?", Focus: Affection,
		Options: opts(
			[5]string{"A message full of love", "Thanks and appreciation", "A simple line", "No preference", "No words needed"},
			[5]Vector{Vec(0, 0, 0, 2), Vec(0, 0, 0, 1), Vec(0, 0, 0, 0), Vec(0, 0, 0, -1), Vec(0, 0, 0, -2)},
		),
	},
	{
		ID: 216, Text: "Where do you like to spend time?", Focus: Distance,
		Options: opts(
			[5]string{"Home dates are best", "Half home, half out", "A good mix", "Mostly out", "Always on the move"},
			[5]Vector{Vec(-2, 0, 1, 0), Vec(-1, 0, 0, 0), Vec(0, 0, 0, 0), Vec(1, 1, 0, 0), Vec(2, 2, 0, 0)},
		),
	},
	{
		ID: 217, Text: "Your ideal messaging style?", Focus: Affection,
		Options: opts(
			[5]string{"Express feelings often", "Short but frequent", "Talk properly when needed", "Just the essentials", "Minimal is enough"},
			[5]Vector{Vec(-1, 0, 0, 2), Vec(0, 0, 0, 1), Vec(0, 0, 0, 0), Vec(0, 0, 0, -1), Vec(1, 0, 0, -2)},
		),
	},
	{
		ID: 218, Text: "Sharing chores when living together?", Focus: Initiative,
		Options: opts(
			[5]string{"I do more", "I do a bit more", "Roughly half each", "They do a bit more", "They do most"},
			[5]Vector{Vec(0, 2, 0, 0), Vec(0, 1, 0, 0), Vec(0, 0, 0, 0), Vec(0, -1, 0, 0), Vec(0, -2, 0, 0)},
		),
	},
	{
		ID: 219, Text: "Communication that reassures you?", Focus: Security,
		Options: opts(
			[5]string{"Daily updates both ways", "Updates at key moments", "Only when it matters", "Bare minimum", "Almost none"},
			[5]Vector{Vec(0, 0, 2, 0), Vec(0, 0, 1, 0), Vec(0, 0, 0, 0), Vec(0, 0, -1, 0), Vec(0, 0, -2, 0)},
		),
	},
	{
		ID: 220, Text: "How do you manage expectations?", Focus: Security,
		Options: opts(
			[5]string{"Expect a lot and enjoy the thrill", "Expect a fair amount", "Keep expectations low", "Expect almost nothing", "Hold no expectations"},
			[5]Vector{Vec(0, 0, -1, 1), Vec(0, 0, 0, 0), Vec(0, 0, 1, 0), Vec(0, 0, 2, 0), Vec(1, 0, 2, 0)},
		),
	},
}

var keyQuestions = []KeyQuestion{ //nolint:gochecknoglobals // static catalog
	{
		ID: 101, Text: "If you could use magic?",
		Options: []KeyOption{{1, "Read my partner's mind"}, {2, "Undo any argument"}, {3, "Stay together forever"}},
	},
	{
		ID: 102, Text: "One thing to take to a desert island?",
		Options: []KeyOption{{1, "A photo of a memory"}, {2, "A game to play"}, {3, "A survival knife"}},
	},
	{
		ID: 103, Text: "If you were reborn?",
		Options: []KeyOption{{1, "A carefree cat"}, {2, "A bird in the sky"}, {3, "A deep-sea fish"}},
	},
}
