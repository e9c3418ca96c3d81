package sentiment

// lexicon maps lower-case words to a polarity in [-1, 1].
var lexicon = map[string]float64{
	// positive
	"amazing":       0.6,
	"awesome":       1.0,
	"beautiful":     0.85,
	"beloved":       0.7,
	"best":          1.0,
	"better":        0.5,
	"blessed":       0.6,
	"bliss":         0.8,
	"brave":         0.6,
	"bright":        0.7,
	"brilliant":     0.9,
	"calm":          0.3,
	"celebrate":     0.5,
	"charming":      0.5,
	"cheerful":      0.6,
	"clever":        0.5,
	"comfort":       0.4,
	"courage":       0.5,
	"delicious":     1.0,
	"delight":       0.8,
	"delightful":    1.0,
	"dream":         0.3,
	"easy":          0.43,
	"enchanted":     0.6,
	"excellent":     1.0,
	"exciting":      0.3,
	"extraordinary": 0.6,
	"fabulous":      0.8,
	"fantastic":     0.4,
	"fine":          0.42,
	"free":          0.4,
	"fun":           0.3,
	"funny":         0.25,
	"gentle":        0.4,
	"gift":          0.4,
	"glad":          0.5,
	"glorious":      0.8,
	"glory":         0.6,
	"good":          0.7,
	"gorgeous":      0.7,
	"grace":         0.5,
	"grand":         0.5,
	"great":         0.8,
	"happiness":     0.8,
	"happy":         0.8,
	"healthy":       0.5,
	"heaven":        0.6,
	"hero":          0.5,
	"hope":          0.5,
	"incredible":    0.9,
	"inspiring":     0.6,
	"joy":           0.8,
	"kind":          0.6,
	"laugh":         0.5,
	"light":         0.4,
	"love":          0.5,
	"lovely":        0.5,
	"loving":        0.6,
	"lucky":         0.6,
	"magic":         0.5,
	"magnificent":   1.0,
	"marvelous":     0.9,
	"nice":          0.6,
	"peace":         0.5,
	"perfect":       1.0,
	"pleasant":      0.73,
	"pleasure":      0.6,
	"precious":      0.5,
	"pretty":        0.25,
	"proud":         0.8,
	"remarkable":    0.75,
	"rich":          0.38,
	"romantic":      0.5,
	"safe":          0.5,
	"secret":        0.1,
	"smart":         0.21,
	"smile":         0.6,
	"special":       0.36,
	"splendid":      1.0,
	"strong":        0.43,
	"success":       0.6,
	"successful":    0.75,
	"sweet":         0.35,
	"triumph":       0.7,
	"true":          0.35,
	"trust":         0.4,
	"victory":       0.6,
	"warm":          0.6,
	"wealth":        0.4,
	"welcome":       0.8,
	"win":           0.8,
	"wise":          0.7,
	"wonder":        0.4,
	"wonderful":     1.0,
	"wow":           0.1,

	// negative
	"abandoned": -0.5,
	"afraid":    -0.6,
	"alone":     -0.3,
	"angry":     -0.5,
	"anxious":   -0.5,
	"awful":     -1.0,
	"bad":       -0.7,
	"betrayal":  -0.7,
	"bitter":    -0.6,
	"blood":     -0.3,
	"boring":    -1.0,
	"broken":    -0.4,
	"cold":      -0.6,
	"crime":     -0.5,
	"cruel":     -1.0,
	"crying":    -0.5,
	"curse":     -0.6,
	"cursed":    -0.6,
	"danger":    -0.6,
	"dangerous": -0.6,
	"dark":      -0.15,
	"dead":      -0.2,
	"deadly":    -0.5,
	"death":     -0.6,
	"defeat":    -0.6,
	"desperate": -0.6,
	"destroy":   -0.6,
	"dirty":     -0.6,
	"disaster":  -0.8,
	"dying":     -0.5,
	"evil":      -1.0,
	"fail":      -0.5,
	"failure":   -0.6,
	"fake":      -0.5,
	"fear":      -0.6,
	"fool":      -0.4,
	"grief":     -0.7,
	"guilty":    -0.5,
	"hard":      -0.29,
	"hate":      -0.8,
	"hell":      -0.6,
	"horrible":  -1.0,
	"hurt":      -0.5,
	"ill":       -0.5,
	"kill":      -0.7,
	"killer":    -0.7,
	"killing":   -0.7,
	"lie":       -0.5,
	"lies":      -0.5,
	"lonely":    -0.5,
	"lost":      -0.4,
	"mad":       -0.63,
	"mistake":   -0.5,
	"murder":    -0.8,
	"nightmare": -0.8,
	"pain":      -0.6,
	"poor":      -0.4,
	"ruin":      -0.6,
	"sad":       -0.5,
	"scared":    -0.6,
	"shame":     -0.6,
	"sick":      -0.71,
	"sin":       -0.5,
	"sinister":  -0.7,
	"sorrow":    -0.7,
	"stupid":    -0.8,
	"terrible":  -1.0,
	"tragedy":   -0.7,
	"tragic":    -0.75,
	"trouble":   -0.5,
	"ugly":      -0.7,
	"unhappy":   -0.6,
	"vicious":   -0.8,
	"war":       -0.4,
	"weak":      -0.38,
	"wicked":    -0.5,
	"worse":     -0.6,
	"worst":     -1.0,
	"wrong":     -0.5,
}

// intensifiers scale the polarity of the following word.
var intensifiers = map[string]float64{
	"extremely":  1.5,
	"incredibly": 1.5,
	"most":       1.3,
	"quite":      1.1,
	"really":     1.3,
	"slightly":   0.7,
	"so":         1.2,
	"somewhat":   0.8,
	"super":      1.3,
	"totally":    1.3,
	"truly":      1.3,
	"very":       1.3,
}

// negations invert and dampen the polarity of the following word.
var negations = map[string]struct{}{
	"neither": {},
	"never":   {},
	"no":      {},
	"nor":     {},
	"not":     {},
	"without": {},
}

const negationFactor = -0.5
