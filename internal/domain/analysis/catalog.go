package analysis

import "github.com/samber/lo"

var (
	lowModerateHigh = []string{"low", "moderate", "high"}
	trend3          = []string{"increasing", "decreasing", "stable"}
	risingFalling   = []string{"rising", "falling", "stable"}
	polarity3       = []string{"positive", "negative", "neutral"}
	internalExt     = []string{"internal", "external", "mixed"}
	needsSet        = []string{"safety", "belonging", "esteem", "autonomy", "growth", "rest"}
	valuesSet       = []string{"honesty", "freedom", "family", "achievement", "kindness", "security"}
	archetypes      = []string{"hero", "caregiver", "explorer", "sage", "rebel", "creator", "innocent", "ruler"}
	intents         = []string{"inform", "request", "express", "persuade", "connect"}
)

func textRoute(name string, fields ...FieldSpec) Route {
	return Route{
		Name:        name,
		EnvelopeKey: lo.CamelCase(name),
		Required:    []string{"text"},
		Template:    fields,
	}
}

func (r Route) withKey(key string) Route {
	r.EnvelopeKey = key
	return r
}

func (r Route) withSummary(s string) Route {
	r.Summary = s
	return r
}

// Catalog returns the built-in analysis routes in their published order.
func Catalog() []Route {
	return []Route{
		textRoute("analyze",
			Derived("length", "integer", deriveText(func(s string) any { return Length(s) })),
			Derived("wordCount", "integer", deriveText(func(s string) any { return WordCount(s) })),
			Const("sentiment", "neutral"),
			Const("keywords", []string{"emotion", "pulse", "placeholder"}),
		).withKey("analysis").withSummary("Text length and word count with placeholder sentiment"),
		textRoute("emotion",
			Float("joy"), Float("sadness"), Float("anger"), Float("fear"), Float("surprise"),
			Enum("dominant", "joy", "sadness", "anger", "fear", "surprise", "neutral"),
		).withKey("emotions"),
		textRoute("insights",
			Const("summary", "Placeholder insight: no analysis was performed."),
			Enum("focus", "self", "others", "work", "future", "past"),
			Float("confidence"),
			Const("source", "placeholder"),
		),
		textRoute("classify",
			Enum("category", "personal", "professional", "creative", "reflective", "conflict"),
			Enum("subcategory", "narrative", "question", "statement", "request"),
			Float("confidence"),
		).withKey("classification"),
		textRoute("summary",
			Derived("summary", "string", deriveText(func(s string) any { out, _ := Summarize(s); return out })),
			Derived("originalLength", "integer", deriveText(func(s string) any { return Length(s) })),
			Derived("wordCount", "integer", deriveText(func(s string) any { return WordCount(s) })),
			Derived("truncated", "boolean", deriveText(func(s string) any { _, cut := Summarize(s); return cut })),
		).withSummary("First twelve words of the text"),
		textRoute("score",
			Float("overall"), Float("positivity"), Float("intensity"), Float("reliability"),
		),
		textRoute("context",
			Enum("setting", "personal", "social", "professional", "academic", "unknown"),
			Enum("timeframe", "past", "present", "future", "mixed"),
			Enum("formality", "formal", "informal", "neutral"),
			Float("confidence"),
		),
		textRoute("profile",
			Float("openness"), Float("conscientiousness"), Float("extraversion"), Float("agreeableness"), Float("neuroticism"),
		),
		textRoute("detect",
			Enum("signal", "calm", "alert", "distressed", "elevated", "neutral"),
			Enum("severity", lowModerateHigh...),
			Float("confidence"),
		).withKey("detection"),
		textRoute("intent",
			Enum("primary", intents...),
			Enum("secondary", intents...),
			Float("confidence"),
		),
		textRoute("keywords",
			Derived("keywords", "array", deriveText(func(s string) any { return Keywords(s) })),
			Derived("count", "integer", deriveText(func(s string) any { return len(Keywords(s)) })),
			Const("source", "placeholder"),
		).withSummary("First five distinct words of the text"),
		textRoute("tones",
			Float("formal"), Float("friendly"), Float("assertive"), Float("tentative"),
			Enum("dominant", "formal", "friendly", "assertive", "tentative"),
		),
		textRoute("energy",
			Float("level"),
			Enum("direction", "rising", "falling", "stable"),
			Enum("quality", "calm", "restless", "vibrant", "depleted"),
		),
		textRoute("stress",
			Float("level"),
			Enum("category", "low", "moderate", "high", "acute"),
			Enum("source", "work", "relationships", "health", "finances", "uncertainty"),
			Float("coping"),
		),
		textRoute("relationship",
			Float("closeness"), Float("trust"), Float("conflict"),
			Enum("dynamic", "supportive", "distant", "strained", "balanced", "dependent"),
		),
		{
			Name:        "compatibility",
			EnvelopeKey: "compatibility",
			Required:    []string{"textA", "textB"},
			Template: Template{
				Float("score"), Float("emotionalAlignment"), Float("communicationMatch"),
				Enum("verdict", "high", "moderate", "low"),
			},
			Summary: "Placeholder compatibility between two texts",
		},
		textRoute("needs",
			Enum("primary", needsSet...),
			Enum("secondary", needsSet...),
			Float("intensity"), Float("fulfilled"),
		),
		textRoute("motivation",
			Float("level"),
			Enum("type", "intrinsic", "extrinsic", "mixed"),
			Enum("driver", "achievement", "connection", "curiosity", "security", "recognition"),
		),
		textRoute("attachment",
			Enum("style", "secure", "anxious", "avoidant", "disorganized"),
			Float("anxiety"), Float("avoidance"), Float("confidence"),
		),
		textRoute("values",
			Enum("primary", valuesSet...),
			Enum("secondary", valuesSet...),
			Float("alignment"), Float("clarity"),
		),
		textRoute("archetype",
			Enum("primary", archetypes...),
			Enum("shadow", archetypes...),
			Float("strength"), Float("confidence"),
		),
		textRoute("behavior",
			Enum("pattern", "approach", "avoidance", "withdrawal", "engagement", "reactive"),
			Float("consistency"), Float("adaptability"),
		),
		textRoute("patterns",
			Enum("recurring", "rumination", "self-criticism", "optimism", "catastrophizing", "gratitude"),
			Float("frequency"), Float("awareness"),
		),
		textRoute("trajectory",
			Enum("direction", "improving", "declining", "stable", "fluctuating"),
			Float("momentum"), Float("confidence"),
		),
		textRoute("forecast",
			Enum("outlook", "positive", "neutral", "negative", "uncertain"),
			Enum("horizon", "short-term", "mid-term", "long-term"),
			Float("probability"), Float("volatility"),
		),
		textRoute("state",
			Enum("current", "calm", "anxious", "excited", "tired", "focused", "overwhelmed"),
			Float("arousal"), Float("valence"),
		),
		textRoute("clarity",
			Float("score"), Float("coherence"), Float("ambiguity"),
			Enum("level", "clear", "mixed", "confused"),
		),
		textRoute("sentiment-advanced",
			Enum("polarity", "positive", "negative", "neutral", "mixed"),
			Float("positive"), Float("negative"), Float("neutral"), Float("subjectivity"),
		),
		textRoute("intent-advanced",
			Enum("primary", "seek-support", "vent", "plan", "reflect", "celebrate", "decide"),
			Float("urgency"), Float("explicitness"), Float("confidence"),
		),
		textRoute("meaning",
			Enum("theme", "purpose", "loss", "connection", "growth", "identity", "change"),
			Float("depth"), Float("coherence"),
		),
		textRoute("cognition",
			Enum("style", "analytical", "intuitive", "reflective", "reactive"),
			Enum("distortion", "none", "all-or-nothing", "overgeneralization", "mind-reading", "catastrophizing"),
			Float("load"), Float("flexibility"),
		),
		textRoute("flow",
			Float("score"), Float("absorption"), Float("challenge"), Float("skill"),
			Enum("state", "flow", "boredom", "anxiety", "apathy"),
		),
		textRoute("impact",
			Float("magnitude"),
			Enum("valence", polarity3...),
			Enum("reach", "self", "close-circle", "community"),
			Enum("duration", "momentary", "short-term", "lasting"),
		),
		textRoute("processing",
			Float("depth"),
			Enum("speed", "slow", "moderate", "fast"),
			Enum("mode", "verbal", "visual", "somatic", "mixed"),
			Float("integration"),
		),
		textRoute("tempo",
			Enum("pace", "slow", "steady", "fast", "erratic"),
			Float("rhythm"), Float("acceleration"),
		),
		textRoute("resonance",
			Float("score"),
			Enum("tone", "warm", "neutral", "cool", "charged"),
			Float("depth"),
		),
		textRoute("thresholds",
			Float("tolerance"), Float("sensitivity"),
			Enum("nearest", "overwhelm", "shutdown", "irritation", "none"),
			Float("margin"),
		),
		textRoute("volatility",
			Float("score"),
			Enum("trend", trend3...),
			Float("range"),
		),
		textRoute("grounding",
			Float("score"),
			Enum("anchor", "body", "breath", "environment", "relationships", "routine"),
			Float("stability"),
		),
		textRoute("attunement",
			Float("self"), Float("others"),
			Enum("mode", "empathic", "detached", "enmeshed", "balanced"),
		),
		textRoute("identity",
			Float("coherence"),
			Enum("salience", "role", "values", "relationships", "body", "culture"),
			Float("stability"), Float("exploration"),
		),
		textRoute("agency",
			Float("score"),
			Enum("locus", internalExt...),
			Float("efficacy"),
		),
		textRoute("echo",
			Float("repetition"),
			Enum("origin", "past", "others", "self", "culture"),
			Float("persistence"),
		),
		textRoute("inner-voice",
			Enum("tone", "supportive", "critical", "neutral", "anxious", "encouraging"),
			Float("volume"), Float("kindness"),
		),
		textRoute("meta",
			Float("awareness"), Float("reflection"),
			Enum("level", lowModerateHigh...),
		),
		textRoute("pulse",
			Float("rate"), Float("intensity"),
			Enum("rhythm", "steady", "irregular", "accelerating", "slowing"),
		),
		textRoute("field",
			Float("openness"), Float("density"),
			Enum("polarity", "attracting", "repelling", "neutral"),
		),
		textRoute("entropy",
			Float("score"), Float("order"),
			Enum("trend", trend3...),
		),
		textRoute("phase",
			Enum("current", "initiation", "growth", "plateau", "decline", "renewal"),
			Float("progress"), Float("stability"),
		),
		textRoute("charge",
			Float("level"),
			Enum("polarity", polarity3...),
			Float("discharge"),
		),
		textRoute("vibration",
			Float("frequency"), Float("amplitude"),
			Enum("quality", "harmonious", "dissonant", "neutral"),
		),
		textRoute("coherence",
			Float("score"), Float("internal"), Float("external"),
			Enum("level", lowModerateHigh...),
		),
		textRoute("threshold",
			Float("level"), Float("proximity"),
			Enum("type", "emotional", "cognitive", "physical", "social"),
		),
		textRoute("activation",
			Float("level"),
			Enum("system", "sympathetic", "parasympathetic", "balanced"),
			Enum("trigger", "social", "task", "memory", "uncertainty", "none"),
		),
		textRoute("pressure",
			Float("level"),
			Enum("source", internalExt...),
			Enum("trend", risingFalling...),
		),
		textRoute("load",
			Float("cognitive"), Float("emotional"), Float("physical"),
			Enum("overall", "light", "moderate", "heavy", "overloaded"),
		),
		textRoute("fragmentation",
			Float("score"), Float("integration"),
			Enum("pattern", "scattered", "compartmentalized", "cohesive"),
		),
		textRoute("intuition",
			Float("strength"), Float("clarity"),
			Enum("direction", "approach", "avoid", "wait", "uncertain"),
		),
		textRoute("instinct",
			Enum("type", "fight", "flight", "freeze", "fawn", "tend-and-befriend"),
			Float("intensity"), Float("confidence"),
		),
		textRoute("drive",
			Float("strength"),
			Enum("focus", "achievement", "connection", "autonomy", "security", "pleasure"),
			Float("sustainability"),
		),
		textRoute("impulse",
			Float("strength"), Float("control"),
			Enum("direction", "act", "withdraw", "express", "suppress"),
		),
		textRoute("urge",
			Float("intensity"),
			Enum("target", "connection", "escape", "action", "rest", "expression"),
			Float("urgency"),
		),
		textRoute("tension",
			Float("level"),
			Enum("location", "body", "mind", "relationships", "work", "mixed"),
			Float("release"),
		),
	}
}
