package impersonation

// confusablePairs maps a character or short sequence to what it can be
// visually mistaken for. Pairs are directional: the first element appears in
// the candidate domain, the second in the legitimate brand. The slice is
// walked in order, so detection is deterministic.
//
// Input domains are lower-cased before matching, which is how the classic
// capital-I-for-lowercase-l swap lands here as "i" vs "l".
var confusablePairs = [][2]string{
	{"0", "o"},
	{"o", "0"},
	{"1", "l"},
	{"l", "1"},
	{"1", "i"},
	{"i", "1"},
	{"i", "l"},
	{"l", "i"},
	{"3", "e"},
	{"e", "3"},
	{"5", "s"},
	{"s", "5"},
	{"8", "b"},
	{"b", "8"},
	{"rn", "m"},
	{"m", "rn"},
	{"vv", "w"},
	{"w", "vv"},
	{"cl", "d"},
	{"d", "cl"},
	{"nn", "m"},
	{"q", "g"},
	{"g", "q"},
	{"u", "v"},
	{"v", "u"},
}
