package chart

// DefaultRange is the score range of the published instrument.
var DefaultRange = Range{Min: 1, Max: 5}

// DefaultAxes returns the nine-axis instrument in its fixed angular
// order: three contiguous groups of three axes each.
func DefaultAxes() []Axis {
	return []Axis{
		{Key: "grandeur", Label: "Grandeur", Group: GroupSpace},
		{Key: "intimacy", Label: "Intimacy", Group: GroupSpace},
		{Key: "ornament", Label: "Ornament", Group: GroupSpace},
		{Key: "heritage", Label: "Heritage", Group: GroupStory},
		{Key: "legend", Label: "Legend", Group: GroupStory},
		{Key: "resonance", Label: "Resonance", Group: GroupStory},
		{Key: "repertoire", Label: "Repertoire", Group: GroupStage},
		{Key: "craft", Label: "Stage\nCraft", Group: GroupStage},
		{Key: "daring", Label: "Daring", Group: GroupStage},
	}
}
