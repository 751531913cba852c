package scoring

// PersonalProfile describes an archetype for display.
type PersonalProfile struct {
	ID            Archetype `json:"id"`
	Name          string    `json:"name"`
	Headline      string    `json:"headline"`
	Strengths     []string  `json:"strengths"`
	Caution       string    `json:"caution"`
	Avatar        string    `json:"avatar"`
	AvatarOptions []string  `json:"avatarOptions,omitempty"`
}

// SoloVariantProfile describes one of the sixteen solo variants.
type SoloVariantProfile struct {
	ID        SoloVariant `json:"id"`
	Archetype Archetype   `json:"archetype"`
	Title     string      `json:"title"`
	Avatar    string      `json:"avatar"`
	Summary   string      `json:"summary"`
}

// DuoVariantProfile describes one of the eight duo variants.
type DuoVariantProfile struct {
	ID      DuoVariant `json:"id"`
	Title   string     `json:"title"`
	Emoji   string     `json:"emoji"`
	Message string     `json:"message"`
	Tips    []string   `json:"tips"`
}

const (
	tipKeyMatch       = "You matched on the special question. Sharing honest feelings will close the distance fast."
	tipShareValues    = "Share what each of you wants to protect before making plans and you will both feel safer."
	tipHostBonusOther = "For you: as the one who sent the invite, leading the next step will make things smooth."
)

var personalProfiles = map[Archetype]PersonalProfile{ //nolint:gochecknoglobals // static catalog
	ArchetypeHarmony: {
		ID:            ArchetypeHarmony,
		Name:          "Harmony",
		Headline:      "A balanced partner who reads the room",
		Strengths:     []string{"keeping the peace", "adapting to plans"},
		Caution:       "may hold back their own wishes to avoid friction",
		Avatar:        "🕊️",
		AvatarOptions: []string{"🕊️", "🌿", "🫖"},
	},
	ArchetypeMyPace: {
		ID:            ArchetypeMyPace,
		Name:          "My Pace",
		Headline:      "A calm partner who values personal space",
		Strengths:     []string{"staying steady", "respecting boundaries"},
		Caution:       "can seem distant when they need time alone",
		Avatar:        "🐢",
		AvatarOptions: []string{"🐢", "🌙", "📚"},
	},
	ArchetypeLead: {
		ID:            ArchetypeLead,
		Name:          "Lead",
		Headline:      "A proactive partner who likes to take the wheel",
		Strengths:     []string{"making decisions", "planning ahead"},
		Caution:       "may push ahead before checking how you feel",
		Avatar:        "🦁",
		AvatarOptions: []string{"🦁", "🚀", "🧭"},
	},
	ArchetypeAffection: {
		ID:            ArchetypeAffection,
		Name:          "Affection",
		Headline:      "A warm partner who shows love openly",
		Strengths:     []string{"expressing feelings", "staying close"},
		Caution:       "can feel uneasy when contact drops off",
		Avatar:        "🐻",
		AvatarOptions: []string{"🐻", "💞", "🧸"},
	},
}

var hostBonusTips = map[Archetype]string{ //nolint:gochecknoglobals // static catalog
	ArchetypeHarmony:   "For you: suggest two concrete options and let them pick. They relax when the choice is easy.",
	ArchetypeMyPace:    "For you: propose a plan with some free time built in. They open up when not rushed.",
	ArchetypeLead:      "For you: ask for their idea first, then add yours. They enjoy being asked to lead.",
	ArchetypeAffection: "For you: a quick message right after meeting goes a long way with them.",
}

func hostBonusTip(partner Archetype) string {
	if t, ok := hostBonusTips[partner]; ok {
		return t
	}
	return tipHostBonusOther
}

func personalProfile(a Archetype) PersonalProfile {
	if p, ok := personalProfiles[a]; ok {
		return p
	}
	return personalProfiles[ArchetypeHarmony]
}

// Profile returns the display profile for archetype a.
func Profile(a Archetype) (PersonalProfile, bool) {
	p, ok := personalProfiles[a]
	return p, ok
}

var soloProfiles = buildSoloProfiles() //nolint:gochecknoglobals // static catalog

func buildSoloProfiles() map[SoloVariant]SoloVariantProfile {
	type entry struct {
		title, avatar, summary string
	}
	table := map[Archetype][4]entry{
		ArchetypeHarmony: {
			{"Sunny Mediator", "🌤️", "Keeps things light and steady, and leans in when it counts."},
			{"Gentle Listener", "🫖", "Agrees easily but quietly keeps a few lines of their own."},
			{"Quiet Anchor", "⚓", "Holds back at first, then becomes the steady centre."},
			{"Soft Observer", "🌿", "Watches carefully before joining in and rarely forces things."},
		},
		ArchetypeMyPace: {
			{"Free Explorer", "🧭", "Enjoys doing their own thing and brings back stories to share."},
			{"Cozy Hermit", "🐢", "Recharges alone and returns warmer than before."},
			{"Steady Drifter", "🌙", "Moves at a constant pace and trusts the relationship to keep up."},
			{"Independent Cat", "🐈", "Close on their own terms and happiest with room to breathe."},
		},
		ArchetypeLead: {
			{"Bold Captain", "🦁", "Sets the course and wants you right beside them."},
			{"Thoughtful Planner", "🗺️", "Leads with preparation and checks in along the way."},
			{"Quiet Engine", "🚂", "Pushes things forward without needing the spotlight."},
			{"Solo Pioneer", "🚀", "Charges ahead and trusts you to follow when ready."},
		},
		ArchetypeAffection: {
			{"Warm Hugger", "🐻", "Shows love in every small gesture and wants it back."},
			{"Sweet Messenger", "💌", "Keeps the connection alive with frequent little messages."},
			{"Shy Romantic", "🌸", "Feels deeply but shows it in careful, quiet ways."},
			{"Loyal Companion", "🧸", "Affectionate and dependable, even from a distance."},
		},
	}
	signs := [4][2]Sign{{SignPos, SignPos}, {SignPos, SignNeg}, {SignNeg, SignPos}, {SignNeg, SignNeg}}

	out := make(map[SoloVariant]SoloVariantProfile, 16)
	for arch, entries := range table {
		for i, e := range entries {
			id := NewSoloVariant(arch, signs[i][0], signs[i][1])
			out[id] = SoloVariantProfile{ID: id, Archetype: arch, Title: e.title, Avatar: e.avatar, Summary: e.summary}
		}
	}
	return out
}

// SoloProfile returns the profile for a solo variant id.
func SoloProfile(id SoloVariant) (SoloVariantProfile, bool) {
	p, ok := soloProfiles[id]
	return p, ok
}

// SoloProfiles lists all solo variants ordered by archetype then signs.
func SoloProfiles() []SoloVariantProfile {
	out := make([]SoloVariantProfile, 0, len(soloProfiles))
	for a := ArchetypeHarmony; a <= ArchetypeAffection; a++ {
		for _, first := range []Sign{SignPos, SignNeg} {
			for _, second := range []Sign{SignPos, SignNeg} {
				out = append(out, soloProfiles[NewSoloVariant(a, first, second)])
			}
		}
	}
	return out
}

var duoProfiles = map[DuoVariant]DuoVariantProfile{ //nolint:gochecknoglobals // static catalog
	DuoSyncStrong: {
		ID: DuoSyncStrong, Title: "Perfect Sync", Emoji: "💫",
		Message: "You want almost the same things in almost the same amounts.",
		Tips:    []string{"Try something new together so things stay fresh.", "Name the small differences early, they are easy to miss."},
	},
	DuoSyncSoft: {
		ID: DuoSyncSoft, Title: "Easy Harmony", Emoji: "🎶",
		Message: "Your directions match even if the intensity differs.",
		Tips:    []string{"Agree on how much, not just what.", "Check in on pace every so often."},
	},
	DuoComplementActive: {
		ID: DuoComplementActive, Title: "Driver and Navigator", Emoji: "🧭",
		Message: "One of you leads clearly and the other fills in the gaps.",
		Tips:    []string{"Swap roles on small decisions now and then.", "Thank the one who follows as often as the one who leads."},
	},
	DuoComplementGentle: {
		ID: DuoComplementGentle, Title: "Gentle Puzzle", Emoji: "🧩",
		Message: "You differ in places but fit together without much friction.",
		Tips:    []string{"Talk about the one axis you share, it is your common ground.", "Let differences be interesting rather than wrong."},
	},
	DuoContrastGuard: {
		ID: DuoContrastGuard, Title: "Safe Harbour and Open Sea", Emoji: "⚓",
		Message: "Your biggest gap is how much reassurance each of you needs.",
		Tips:    []string{"Agree on a simple check-in routine.", "Say out loud what makes you feel secure."},
	},
	DuoContrastExplore: {
		ID: DuoContrastExplore, Title: "Near and Far", Emoji: "🌗",
		Message: "Your biggest gap is how close you want to be day to day.",
		Tips:    []string{"Plan shared time and solo time on purpose.", "Distance is not disinterest, talk about it."},
	},
	DuoDriftBridge: {
		ID: DuoDriftBridge, Title: "Bridge Builders", Emoji: "🌉",
		Message: "You drift apart on several axes and one of you tends to take charge.",
		Tips:    []string{"Let the quieter one choose the next plan.", "Small, regular dates beat rare big ones."},
	},
	DuoDriftStable: {
		ID: DuoDriftStable, Title: "Parallel Paths", Emoji: "🛤️",
		Message: "You lean different ways but neither of you pushes hard.",
		Tips:    []string{"Find one shared ritual and protect it.", "Ask rather than assume what the other wants."},
	},
}

// DuoProfile returns the profile for a duo variant.
func DuoProfile(d DuoVariant) (DuoVariantProfile, bool) {
	p, ok := duoProfiles[d]
	return p, ok
}

// DuoProfiles lists all duo variants in display order.
func DuoProfiles() []DuoVariantProfile {
	out := make([]DuoVariantProfile, 0, len(DuoVariants))
	for _, d := range DuoVariants {
		out = append(out, duoProfiles[d])
	}
	return out
}
